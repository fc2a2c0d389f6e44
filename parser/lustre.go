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
	"regexp"
	"strconv"
	"strings"
	"time"
)

const lustreBlockSize = 512

// lustreLinePattern splits a Lustre `lfs find --printf` line into its FID
// prefix, the key=value field section, and the path.
//
// Format: 0xHEX:0xHEX:0xHEX fields -- /path
var lustreLinePattern = regexp.MustCompile(`^0x[0-9a-f]+:0x[0-9a-f]+:0x[0-9a-f]+\s+(.+?)\s+--\s+(.+)$`)

var lustreFieldPatterns = struct {
	size, blocks, uid, gid, ftype, atime *regexp.Regexp
}{
	size:   regexp.MustCompile(`s=(\d+)`),
	blocks: regexp.MustCompile(`b=(\d+)`),
	uid:    regexp.MustCompile(`u=(\d+)`),
	gid:    regexp.MustCompile(`g=(\d+)`),
	ftype:  regexp.MustCompile(`type=([df])`),
	atime:  regexp.MustCompile(`a=(\d+)`),
}

// LustreParser parses Lustre scan log lines produced by `lfs find`:
//
//	0x24001959d:0x1f:0x0 s=16384 b=32 u=38057 g=68122 type=d a=1769700762 -- /path
type LustreParser struct{}

func NewLustreParser() *LustreParser { return &LustreParser{} }

func (p *LustreParser) FormatName() string { return "lustre" }

func (p *LustreParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".lfs-scan")
}

func (p *LustreParser) ParseLine(line string) (Entry, bool) {
	m := lustreLinePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	fields, path := m[1], m[2]

	sizeMatch := lustreFieldPatterns.size.FindStringSubmatch(fields)
	blocksMatch := lustreFieldPatterns.blocks.FindStringSubmatch(fields)
	uidMatch := lustreFieldPatterns.uid.FindStringSubmatch(fields)
	gidMatch := lustreFieldPatterns.gid.FindStringSubmatch(fields)
	typeMatch := lustreFieldPatterns.ftype.FindStringSubmatch(fields)
	atimeMatch := lustreFieldPatterns.atime.FindStringSubmatch(fields)

	if sizeMatch == nil || blocksMatch == nil || uidMatch == nil ||
		gidMatch == nil || typeMatch == nil || atimeMatch == nil {
		return Entry{}, false
	}

	size, err := strconv.ParseInt(sizeMatch[1], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	blocks, err := strconv.ParseInt(blocksMatch[1], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	uid, err := strconv.ParseUint(uidMatch[1], 10, 32)
	if err != nil {
		return Entry{}, false
	}

	gid, err := strconv.ParseUint(gidMatch[1], 10, 32)
	if err != nil {
		return Entry{}, false
	}

	atimeSecs, err := strconv.ParseInt(atimeMatch[1], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Path:      path,
		Size:      size,
		Allocated: blocks * lustreBlockSize,
		UID:       uint32(uid),
		GID:       uint32(gid),
		IsDir:     typeMatch[1] == "d",
		HasAtime:  true,
		Atime:     time.Unix(atimeSecs, 0).UTC(),
	}, true
}
