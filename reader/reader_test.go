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
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestReaderPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scan.list", "line one\nline two\nline three\n")

	r, err := New(path, DefaultChunkBytes, nil)
	require.NoError(t, err)
	defer r.Close()

	chunk, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"line one", "line two", "line three"}, chunk.Lines)

	_, ok, err = r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReaderSmallChunksSplitAcrossBatches(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scan.list", "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc\n")

	r, err := New(path, 12, nil)
	require.NoError(t, err)
	defer r.Close()

	var all []string

	for {
		chunk, ok, err := r.Next()
		require.NoError(t, err)

		if !ok {
			break
		}

		all = append(all, chunk.Lines...)
	}

	assert.Equal(t, []string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}, all)
}

func TestReaderGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.list.gz")

	fh, err := os.Create(path) //nolint:gosec
	require.NoError(t, err)

	gz := gzip.NewWriter(fh)
	_, err = gz.Write([]byte("compressed line\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, fh.Close())

	r, err := New(path, DefaultChunkBytes, nil)
	require.NoError(t, err)
	defer r.Close()

	chunk, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"compressed line"}, chunk.Lines)
}

func TestReaderRejectsXZ(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scan.list.xz", "irrelevant")

	_, err := New(path, DefaultChunkBytes, nil)
	assert.ErrorIs(t, err, ErrUnsupportedCompression)
}

func TestReaderInvalidUTF8Replaced(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scan.list", "good\xffline\n")

	r, err := New(path, DefaultChunkBytes, nil)
	require.NoError(t, err)
	defer r.Close()

	chunk, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, chunk.Lines[0], "�")
}
