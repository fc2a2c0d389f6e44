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

// Vector is a fixed-width (count, total size) pair per bucket index.
type Vector struct {
	Count     [SizeBucketCount]uint64 // sized to the larger of the two families; callers only use the prefix that matters
	TotalSize [SizeBucketCount]uint64
}

// PerOwner accumulates access-age and file-size histograms keyed by uid,
// built up during Pass 2a from one worker's chunk of file entries and
// later merged into the persisted store.
type PerOwner struct {
	Access map[uint32]*Vector
	Size   map[uint32]*Vector
}

// NewPerOwner returns an empty accumulator.
func NewPerOwner() *PerOwner {
	return &PerOwner{
		Access: make(map[uint32]*Vector),
		Size:   make(map[uint32]*Vector),
	}
}

// AddAccess records one file of allocatedBytes for uid, falling in the
// access-age bucket implied by ageDays.
func (p *PerOwner) AddAccess(uid uint32, ageDays int64, allocatedBytes int64) {
	idx := AccessAgeBucket(ageDays)

	v := p.Access[uid]
	if v == nil {
		v = &Vector{}
		p.Access[uid] = v
	}

	v.Count[idx]++
	v.TotalSize[idx] += uint64(allocatedBytes)
}

// AddSize records one file of allocatedBytes for uid in its size bucket.
func (p *PerOwner) AddSize(uid uint32, allocatedBytes int64) {
	idx := SizeBucket(allocatedBytes)

	v := p.Size[uid]
	if v == nil {
		v = &Vector{}
		p.Size[uid] = v
	}

	v.Count[idx]++
	v.TotalSize[idx] += uint64(allocatedBytes)
}

// Merge folds other into p in place, used by the coordinator to combine
// one worker chunk's partial histograms into the running totals before
// the single flush at the end of Pass 2a.
func (p *PerOwner) Merge(other *PerOwner) {
	mergeInto(p.Access, other.Access)
	mergeInto(p.Size, other.Size)
}

func mergeInto(dst, src map[uint32]*Vector) {
	for uid, v := range src {
		existing := dst[uid]
		if existing == nil {
			existing = &Vector{}
			dst[uid] = existing
		}

		for i := range v.Count {
			existing.Count[i] += v.Count[i]
			existing.TotalSize[i] += v.TotalSize[i]
		}
	}
}
