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

// package parser turns lines of a filesystem scan log into normalized
// entries, without performing any I/O of its own.
package parser

import "time"

// Entry is a single file or directory record normalized from whichever
// scan format produced it.
type Entry struct {
	Path      string
	Size      int64
	Allocated int64
	UID       uint32
	GID       uint32
	IsDir     bool
	HasAtime  bool
	Atime     time.Time
	HasInode  bool
	Inode     uint64
	HasFileset bool
	FilesetID  uint64
}

// Error is the type of the constant Err* sentinel values in this package
// and its sub-parsers.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrUnknownFormat is returned when an explicit format name does not
	// match any registered parser.
	ErrUnknownFormat = Error("parser: unknown format")
)
