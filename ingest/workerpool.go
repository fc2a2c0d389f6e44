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
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/wtsi-hgi/fsscan/histogram"
	"github.com/wtsi-hgi/fsscan/parser"
	"github.com/wtsi-hgi/fsscan/reader"
	"github.com/wtsi-hgi/fsscan/store"
)

// PassMode selects which half of a chunk's entries a worker turns into a
// ChunkResult: Pass 1 wants directory-only entries, Pass 2a wants the
// per-parent file deltas and histograms (§4.3).
type PassMode int

const (
	// PassDirs is the Pass 1 "filter=dirs" worker mode.
	PassDirs PassMode = iota
	// PassFiles is the Pass 2a "filter=files" worker mode.
	PassFiles
)

// WorkerPool dispatches line-batch chunks across a fixed number of
// goroutines, the idiomatic-Go realization of §4.3's "parallel worker
// processes" chosen in place of real OS subprocesses (§5's Open
// Question, resolved in DESIGN.md): each goroutine never shares mutable
// state with another, and a chunk's result crosses into the coordinator
// only as an explicitly constructed ChunkResult value, not a shared
// pointer into worker-local state.
type WorkerPool struct {
	Parser      parser.Parser
	Mode        PassMode
	ScanDate    int64
	HasScanDate bool
	WorkerCount int
}

// Run reads chunks from in until it is closed, fans them out across
// WorkerCount goroutines (at least one), and returns a result channel
// plus a Wait function. Once a worker has failed, the chunks still
// arriving on in are drained without being processed. The result channel
// closes once in is exhausted and every worker has returned; Wait blocks
// until that point and returns the first worker error encountered,
// aggregating any further ones alongside it (§4.3 "fails fast ...
// propagating the error after draining running workers").
func (wp *WorkerPool) Run(in <-chan reader.Chunk) (<-chan ChunkResult, func() error) {
	workerCount := wp.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	out := make(chan ChunkResult, workerCount*2)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)

	wg.Add(workerCount)

	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()

			for chunk := range in {
				mu.Lock()
				failed := errs != nil
				mu.Unlock()

				if failed {
					continue
				}

				result, err := wp.processChunkSafely(chunk)
				if err != nil {
					mu.Lock()
					errs = multierror.Append(errs, err)
					mu.Unlock()

					continue
				}

				out <- result
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, func() error {
		wg.Wait()
		mu.Lock()
		defer mu.Unlock()

		return errs.ErrorOrNil()
	}
}

// processChunkSafely wraps processChunk with panic recovery, turning an
// unexpected worker panic into the §7 WorkerFailure error kind rather
// than taking the whole pool down with it.
func (wp *WorkerPool) processChunkSafely(chunk reader.Chunk) (result ChunkResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerFailure, r)
		}
	}()

	return wp.processChunk(chunk), nil
}

// processChunk is the pure, stateless worker function: one Chunk in, one
// ChunkResult out. It never mutates package-level state and never
// blocks except on work already handed to it.
func (wp *WorkerPool) processChunk(chunk reader.Chunk) ChunkResult {
	switch wp.Mode {
	case PassDirs:
		return wp.processDirsChunk(chunk)
	default:
		return wp.processFilesChunk(chunk)
	}
}

func (wp *WorkerPool) processDirsChunk(chunk reader.Chunk) ChunkResult {
	result := ChunkResult{LinesInChunk: len(chunk.Lines)}

	for _, line := range chunk.Lines {
		entry, ok := wp.Parser.ParseLine(line)
		if !ok {
			result.ParseSkips++

			continue
		}

		if !entry.IsDir {
			continue
		}

		result.DiscoveredDir = append(result.DiscoveredDir, DiscoveredDirectory{
			Path:      entry.Path,
			Inode:     entry.Inode,
			FilesetID: entry.FilesetID,
		})
	}

	return result
}

func (wp *WorkerPool) processFilesChunk(chunk reader.Chunk) ChunkResult {
	result := ChunkResult{
		LinesInChunk: len(chunk.Lines),
		Dirs:         make(map[string]*DirStatsDelta),
		Histograms:   histogram.NewPerOwner(),
	}

	for _, line := range chunk.Lines {
		entry, ok := wp.Parser.ParseLine(line)
		if !ok {
			result.ParseSkips++

			continue
		}

		if entry.IsDir {
			continue
		}

		wp.addFileEntry(&result, entry)
	}

	// Round-trip the per-parent deltas through the wire codec at the
	// worker/coordinator boundary (§9), so a worker never hands the
	// coordinator anything but a value that has actually crossed the
	// serialization the codec defines.
	result.Dirs = DecodeDirDeltas(EncodeDirDeltas(result.Dirs))

	return result
}

func (wp *WorkerPool) addFileEntry(result *ChunkResult, entry parser.Entry) {
	parentPath, _ := store.SplitParentPath(entry.Path)

	delta := result.Dirs[parentPath]
	if delta == nil {
		delta = &DirStatsDelta{}
		result.Dirs[parentPath] = delta
	}

	var atime *int64

	if entry.HasAtime && entry.Atime.Unix() > 0 {
		v := entry.Atime.Unix()
		atime = &v
	} else {
		result.TimestampAnomalies++
	}

	delta.AddFile(entry.Allocated, atime, entry.UID, entry.GID)

	ageDays := wp.ageDaysFor(atime)
	result.Histograms.AddAccess(entry.UID, ageDays, entry.Allocated)
	result.Histograms.AddSize(entry.UID, entry.Allocated)
}

// ageDaysFor computes the access-age in days used for bucket
// classification, applying §4.5's degraded-mode rule: a worker with no
// scan_date, or a file with no atime (§7 TimestampAnomaly), is classified
// into the oldest bucket by returning a day count beyond every threshold.
func (wp *WorkerPool) ageDaysFor(atime *int64) int64 {
	const forceOldestBucket = 1 << 32

	if !wp.HasScanDate || atime == nil {
		return forceOldestBucket
	}

	return (wp.ScanDate - *atime) / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60
