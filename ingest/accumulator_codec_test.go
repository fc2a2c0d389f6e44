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

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtsi-hgi/fsscan/owner"
)

// TestEncodeDecodeDirDeltasRoundTrip checks that every DirStatsDelta
// field, and all three owner-lattice states, survive the wire codec
// unchanged.
func TestEncodeDecodeDirDeltasRoundTrip(t *testing.T) {
	atime := int64(1700000000)

	deltas := map[string]*DirStatsDelta{
		"/a": {
			FileCount: 3,
			TotalSize: 4096,
			MaxAtime:  &atime,
			DirCount:  1,
			OwnerUID:  owner.Of(100),
			OwnerGID:  owner.MultipleOwner,
		},
		"/a/b": {
			FileCount: 0,
			TotalSize: 0,
			MaxAtime:  nil,
			DirCount:  0,
			OwnerUID:  owner.Nil,
			OwnerGID:  owner.Nil,
		},
	}

	decoded := DecodeDirDeltas(EncodeDirDeltas(deltas))

	require.Len(t, decoded, len(deltas))

	a := decoded["/a"]
	require.NotNil(t, a)
	assert.EqualValues(t, 3, a.FileCount)
	assert.EqualValues(t, 4096, a.TotalSize)
	require.NotNil(t, a.MaxAtime)
	assert.EqualValues(t, atime, *a.MaxAtime)
	assert.EqualValues(t, 1, a.DirCount)

	v, ok := a.OwnerUID.Value()
	require.True(t, ok)
	assert.EqualValues(t, 100, v)
	assert.True(t, a.OwnerGID.IsMultiple())

	b := decoded["/a/b"]
	require.NotNil(t, b)
	assert.Zero(t, b.FileCount)
	assert.Nil(t, b.MaxAtime)
	assert.True(t, b.OwnerUID.IsUnseen())
	assert.True(t, b.OwnerGID.IsUnseen())
}

// TestEncodeDirDeltasEmpty checks the zero-entry case round-trips to an
// empty, non-nil map.
func TestEncodeDirDeltasEmpty(t *testing.T) {
	decoded := DecodeDirDeltas(EncodeDirDeltas(map[string]*DirStatsDelta{}))
	assert.Empty(t, decoded)
}
