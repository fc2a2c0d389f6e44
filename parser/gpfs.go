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
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

const inodeDataThreshold = 4096

// gpfsLinePattern splits a GPFS policy-scan line into its thread/inode/
// fileset/snapshot prefix, the key=value field section, and the path.
//
// Format: <thread> inode fileset_id snapshot fields -- /path
var gpfsLinePattern = regexp.MustCompile(`^<\d+>\s+(\d+)\s+(\d+)\s+\d+\s+(.+?)\s+--\s+(.+)$`)

var gpfsFieldPatterns = struct {
	size, allocKB, uid, gid, perm, atime *regexp.Regexp
}{
	size:    regexp.MustCompile(`s=(\d+)`),
	allocKB: regexp.MustCompile(`a=(\d+)`),
	uid:     regexp.MustCompile(`u=(\d+)`),
	gid:     regexp.MustCompile(`g=(\d+)`),
	perm:    regexp.MustCompile(`p=(\S+)`),
	atime:   regexp.MustCompile(`ac=(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})`),
}

// gpfsNamePattern matches the YYYYMMDD_server_filesystem.list[suffix]
// naming convention used for GPFS policy-scan dumps.
var gpfsNamePattern = regexp.MustCompile(`^\d{8}_[^_]+_[^.]+\.list`)

// GPFSParser parses GPFS policy-engine scan log lines of the form:
//
//	<0> 123456 1 0 s=4096 a=4 u=1000 g=100 p=drwxr-xr-x ac=2024-01-15 10:30:00 -- /path/to/dir
type GPFSParser struct{}

func NewGPFSParser() *GPFSParser { return &GPFSParser{} }

func (p *GPFSParser) FormatName() string { return "gpfs" }

func (p *GPFSParser) CanParse(filename string) bool {
	return gpfsNamePattern.MatchString(filepath.Base(filename))
}

func (p *GPFSParser) ParseLine(line string) (Entry, bool) {
	m := gpfsLinePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	inode, fileset, fields, path := m[1], m[2], m[3], m[4]

	permMatch := gpfsFieldPatterns.perm.FindStringSubmatch(fields)
	if permMatch == nil {
		return Entry{}, false
	}

	isDir := permMatch[1][0] == 'd'
	if !isDir && permMatch[1][0] != '-' {
		return Entry{}, false
	}

	sizeMatch := gpfsFieldPatterns.size.FindStringSubmatch(fields)
	uidMatch := gpfsFieldPatterns.uid.FindStringSubmatch(fields)

	if !isDir && (sizeMatch == nil || uidMatch == nil) {
		return Entry{}, false
	}

	if sizeMatch == nil {
		sizeMatch = []string{"", "0"}
	}

	if uidMatch == nil {
		uidMatch = []string{"", "0"}
	}

	size, err := strconv.ParseInt(sizeMatch[1], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	uid, err := strconv.ParseUint(uidMatch[1], 10, 32)
	if err != nil {
		return Entry{}, false
	}

	e := Entry{
		Path:  path,
		Size:  size,
		UID:   uint32(uid),
		IsDir: isDir,
	}

	if gidMatch := gpfsFieldPatterns.gid.FindStringSubmatch(fields); gidMatch != nil {
		if gid, err := strconv.ParseUint(gidMatch[1], 10, 32); err == nil {
			e.GID = uint32(gid)
		}
	}

	e.Allocated = gpfsAllocatedBytes(fields, size)

	if atimeMatch := gpfsFieldPatterns.atime.FindStringSubmatch(fields); atimeMatch != nil {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", atimeMatch[1], time.UTC); err == nil {
			e.HasAtime = true
			e.Atime = t
		}
	}

	if n, err := strconv.ParseUint(inode, 10, 64); err == nil {
		e.HasInode = true
		e.Inode = n
	}

	if n, err := strconv.ParseUint(fileset, 10, 64); err == nil {
		e.HasFileset = true
		e.FilesetID = n
	}

	return e, true
}

// gpfsAllocatedBytes converts the GPFS a=<kb> field to allocated bytes,
// applying the inline-data special case scoped to GPFS only (SPEC_FULL.md
// §6/§9 Open Question 1): when allocated is absent/zero and the logical
// size fits within a single inode, GPFS has stored the data inline.
func gpfsAllocatedBytes(fields string, size int64) int64 {
	allocMatch := gpfsFieldPatterns.allocKB.FindStringSubmatch(fields)
	if allocMatch == nil {
		if size <= inodeDataThreshold {
			return size
		}

		return 0
	}

	kb, err := strconv.ParseInt(allocMatch[1], 10, 64)
	if err != nil {
		return 0
	}

	allocated := kb * 1024

	if allocated == 0 && size <= inodeDataThreshold {
		return size
	}

	return allocated
}
