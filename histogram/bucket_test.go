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

package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessAgeBucket(t *testing.T) {
	assert.Equal(t, 0, AccessAgeBucket(0))
	assert.Equal(t, 0, AccessAgeBucket(29))
	assert.Equal(t, 1, AccessAgeBucket(30))
	assert.Equal(t, 1, AccessAgeBucket(179))
	assert.Equal(t, 2, AccessAgeBucket(180))
	assert.Equal(t, 3, AccessAgeBucket(365))
	assert.Equal(t, 4, AccessAgeBucket(3*365))
	assert.Equal(t, 5, AccessAgeBucket(5*365))
	assert.Equal(t, 5, AccessAgeBucket(10*365))
	assert.Equal(t, 0, AccessAgeBucket(-5), "clock skew clamps to bucket 0")
}

func TestAccessAgeBucketFromSeconds(t *testing.T) {
	scanDate := int64(1_700_000_000)
	tenDaysAgo := scanDate - 10*secondsPerDay
	fourHundredDaysAgo := scanDate - 400*secondsPerDay

	assert.Equal(t, 0, AccessAgeBucketFromSeconds(tenDaysAgo, scanDate))
	assert.Equal(t, 3, AccessAgeBucketFromSeconds(fourHundredDaysAgo, scanDate))
}

func TestSizeBucket(t *testing.T) {
	assert.Equal(t, 0, SizeBucket(0))
	assert.Equal(t, 0, SizeBucket(128*mib-1))
	assert.Equal(t, 1, SizeBucket(128*mib))
	assert.Equal(t, 1, SizeBucket(512*mib-1))
	assert.Equal(t, 2, SizeBucket(512*mib))
	assert.Equal(t, 2, SizeBucket(1*gib-1))
	assert.Equal(t, 11, SizeBucket(256*gib))
	assert.Equal(t, 11, SizeBucket(1024*gib))
}

func TestPerOwnerAddAndMerge(t *testing.T) {
	a := NewPerOwner()
	a.AddAccess(100, 10, 4096)
	a.AddSize(100, 4096)

	b := NewPerOwner()
	b.AddAccess(100, 10, 8192)
	b.AddSize(100, 8192)

	a.Merge(b)

	assert.EqualValues(t, 2, a.Access[100].Count[0])
	assert.EqualValues(t, 4096+8192, a.Access[100].TotalSize[0])
	assert.EqualValues(t, 2, a.Size[100].Count[0])
	assert.EqualValues(t, 4096+8192, a.Size[100].TotalSize[0])
}
