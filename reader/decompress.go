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

package reader

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// Error is the type of the constant Err* sentinel values in this package.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrUnsupportedCompression is returned for recognised-but-unimplemented
	// compression suffixes (currently ".xz" — no pure-Go or vendored xz
	// decoder is available; see DESIGN.md).
	ErrUnsupportedCompression = Error("reader: unsupported compression suffix")
)

// decompressedFile is a ReadCloser that closes both the decompression layer
// (if any) and the underlying file handle on Close, whichever order they
// were opened in.
type decompressedFile struct {
	io.Reader
	layers []io.Closer
}

func (d *decompressedFile) Close() error {
	var err error

	for i := len(d.layers) - 1; i >= 0; i-- {
		if cerr := d.layers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

// openDecompressed opens path and wraps it in a decompressor chosen by
// filename suffix. The returned ReadCloser releases every layer (file
// handle and any decompressor) on Close.
func openDecompressed(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := pgzip.NewReader(fh)
		if err != nil {
			fh.Close()

			return nil, err
		}

		return &decompressedFile{Reader: gz, layers: []io.Closer{fh, gz}}, nil
	case strings.HasSuffix(path, ".xz"):
		fh.Close()

		return nil, ErrUnsupportedCompression
	default:
		return fh, nil
	}
}
