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
	"github.com/wtsi-hgi/fsscan/histogram"
	"github.com/wtsi-hgi/fsscan/owner"
)

// DirStatsDelta is one worker chunk's partial, non-recursive contribution
// to a single parent directory: counts and sizes to add, the max atime
// seen (nil if none), and the owner-lattice value local to this chunk.
type DirStatsDelta struct {
	FileCount int64
	TotalSize int64
	MaxAtime  *int64
	DirCount  int64
	OwnerUID  owner.Owner
	OwnerGID  owner.Owner
}

// AddFile folds one file entry's contribution into the delta.
func (d *DirStatsDelta) AddFile(allocated int64, atime *int64, uid, gid uint32) {
	d.FileCount++
	d.TotalSize += allocated

	if atime != nil {
		d.MaxAtime = maxAtime(d.MaxAtime, atime)
	}

	d.OwnerUID = d.OwnerUID.Join(owner.Of(uid))
	d.OwnerGID = d.OwnerGID.Join(owner.Of(gid))
}

// AddDir records one direct subdirectory under this parent.
func (d *DirStatsDelta) AddDir() {
	d.DirCount++
}

func maxAtime(a, b *int64) *int64 {
	if a == nil {
		return b
	}

	if b == nil {
		return a
	}

	if *b > *a {
		return b
	}

	return a
}

// Merge folds other into d, as the coordinator does when combining one
// worker chunk's result into the running pending-map entry for a
// directory that multiple chunks contributed to.
func (d *DirStatsDelta) Merge(other *DirStatsDelta) {
	d.FileCount += other.FileCount
	d.TotalSize += other.TotalSize
	d.DirCount += other.DirCount
	d.MaxAtime = maxAtime(d.MaxAtime, other.MaxAtime)
	d.OwnerUID = d.OwnerUID.Join(other.OwnerUID)
	d.OwnerGID = d.OwnerGID.Join(other.OwnerGID)
}

// ChunkResult is the triple a worker returns for one chunk of lines:
// per-parent non-recursive deltas, per-owner histogram accumulators, and
// (Pass 1 only) the directory-only entries discovered in the chunk.
type ChunkResult struct {
	Dirs               map[string]*DirStatsDelta
	Histograms         *histogram.PerOwner
	DiscoveredDir      []DiscoveredDirectory
	LinesInChunk       int
	ParseSkips         int64
	TimestampAnomalies int64
}

// DiscoveredDirectory is a directory-only entry found during Pass 1
// Phase 1a, destined for the staging table.
type DiscoveredDirectory struct {
	Path      string
	Inode     uint64
	FilesetID uint64
}
