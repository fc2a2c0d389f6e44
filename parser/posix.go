/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package parser

import (
	"strconv"
	"strings"
	"time"
)

// Entry type letters recognised in the POSIX tab-separated grammar. Only
// fileTypeFile and fileTypeDir participate in directory-statistics
// aggregation; the rest are parsed but skipped by the ingest pipeline.
const (
	fileTypeFile   = 'f'
	fileTypeDir    = 'd'
	fileTypeSymlink = 'L'
	fileTypeDevice  = 'D'
	fileTypePipe    = 'p'
	fileTypeSocket  = 'S'
	fileTypeChar    = 'c'
)

const posixColumnCount = 9

// PosixParser parses generic POSIX scan logs: tab-separated columns of
// path, size, allocated, uid, gid, atime, mtime, ctime, type. Like Lustre
// and unlike GPFS it carries no embedded filesystem name in the file name.
type PosixParser struct{}

func NewPOSIXParser() *PosixParser { return &PosixParser{} }

func (p *PosixParser) FormatName() string { return "posix" }

func (p *PosixParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".posix-scan")
}

func (p *PosixParser) ParseLine(line string) (Entry, bool) {
	cols := strings.Split(line, "\t")
	if len(cols) != posixColumnCount {
		return Entry{}, false
	}

	size, err := strconv.ParseInt(cols[1], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	allocated, err := strconv.ParseInt(cols[2], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	uid, err := strconv.ParseUint(cols[3], 10, 32)
	if err != nil {
		return Entry{}, false
	}

	gid, err := strconv.ParseUint(cols[4], 10, 32)
	if err != nil {
		return Entry{}, false
	}

	if len(cols[8]) != 1 {
		return Entry{}, false
	}

	entryType := cols[8][0]

	switch entryType {
	case fileTypeFile, fileTypeDir:
	case fileTypeSymlink, fileTypeDevice, fileTypePipe, fileTypeSocket, fileTypeChar:
		// recognised but irrelevant to directory-statistics aggregation
		return Entry{}, false
	default:
		return Entry{}, false
	}

	e := Entry{
		Path:      cols[0],
		Size:      size,
		Allocated: allocated,
		UID:       uint32(uid),
		GID:       uint32(gid),
		IsDir:     entryType == fileTypeDir,
	}

	if atimeSecs, err := strconv.ParseInt(cols[5], 10, 64); err == nil && atimeSecs > 0 {
		e.HasAtime = true
		e.Atime = time.Unix(atimeSecs, 0).UTC()
	}

	return e, true
}
