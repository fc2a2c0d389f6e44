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

// package reader streams a (possibly compressed) scan log as byte-bounded
// batches of lines, ready for dispatch to the worker pool.
package reader

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"code.cloudfoundry.org/bytefmt"
	"github.com/inconshreveable/log15"
)

// DefaultChunkBytes is the byte-size hint for a line batch (§4.2/§9).
const DefaultChunkBytes = 32 * 1024 * 1024

const initialScanBuffer = 64 * 1024
const maxScanBuffer = 8 * 1024 * 1024

// Chunk is a contiguous batch of lines whose combined size is approximately
// the reader's configured chunk size.
type Chunk struct {
	Lines []string
	Bytes int64
}

// Reader streams line batches from a single scan log file, transparently
// decompressing by filename suffix and replacing invalid UTF-8.
type Reader struct {
	rc         io.ReadCloser
	scanner    *bufio.Scanner
	chunkBytes int64

	logger     log15.Logger
	bytesRead  int64
	nextReport int64
}

// New opens path and returns a Reader with the given chunk-byte hint. The
// returned Reader must be closed by the caller; Close releases the
// decompression layer and the underlying file handle regardless of how
// reading ended.
func New(path string, chunkBytes int64, logger log15.Logger) (*Reader, error) {
	rc, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}

	if chunkBytes <= 0 {
		chunkBytes = DefaultChunkBytes
	}

	if logger == nil {
		logger = log15.New()
	}

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, initialScanBuffer), maxScanBuffer)

	return &Reader{
		rc:         rc,
		scanner:    scanner,
		chunkBytes: chunkBytes,
		logger:     logger,
		nextReport: DefaultChunkBytes * 10,
	}, nil
}

// Close releases the underlying decompressor and file handle.
func (r *Reader) Close() error {
	return r.rc.Close()
}

// Next returns the next line batch. ok is false once the input is
// exhausted; err is non-nil only on a genuine read failure.
func (r *Reader) Next() (Chunk, bool, error) {
	var chunk Chunk

	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !utf8.ValidString(line) {
			line = strings.ToValidUTF8(line, "�")
		}

		chunk.Lines = append(chunk.Lines, line)
		chunk.Bytes += int64(len(line)) + 1
		r.bytesRead += int64(len(line)) + 1

		if chunk.Bytes >= r.chunkBytes {
			break
		}
	}

	if r.bytesRead >= r.nextReport {
		r.logger.Info("reader progress", "bytes_read", bytefmt.ByteSize(uint64(r.bytesRead)))
		r.nextReport += DefaultChunkBytes * 10
	}

	if err := r.scanner.Err(); err != nil {
		return chunk, len(chunk.Lines) > 0, err
	}

	return chunk, len(chunk.Lines) > 0, nil
}
