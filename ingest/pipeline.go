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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inconshreveable/log15"

	"github.com/wtsi-hgi/fsscan/histogram"
	"github.com/wtsi-hgi/fsscan/owner"
	"github.com/wtsi-hgi/fsscan/parser"
	"github.com/wtsi-hgi/fsscan/reader"
	"github.com/wtsi-hgi/fsscan/store"
)

// Summary is the final, observable outcome of one ingest run: the totals
// a caller reports to stderr and the recoverable-anomaly counts gathered
// along the way (§7/§8).
type Summary struct {
	RunID       string
	Filesystem  string
	StorePath   string
	Directories int64
	Files       int64
	TotalSize   int64
	Anomalies   AnomalyCounts
	Elapsed     time.Duration
}

// pipeline carries the mutable state threaded through a single ingest
// run's four passes: the one store connection the coordinator
// exclusively owns, the selected parser, and the running anomaly tally.
type pipeline struct {
	cfg       Config
	parser    parser.Parser
	store     *store.Store
	logger    log15.Logger
	anomalies AnomalyCounts
	totals    store.RootTotals
	dirCount  int64
}

// Run executes the full four-pass ingest (§2 data flow) for cfg,
// returning the run's Summary. cfg is normalized (defaults filled in)
// before use.
func Run(cfg Config) (Summary, error) {
	cfg.Normalize()

	if _, err := os.Stat(cfg.InputFile); err != nil {
		return Summary{}, fmt.Errorf("%w: %s", ErrInputMissing, cfg.InputFile)
	}

	if cfg.StorePath == "" {
		return Summary{}, fmt.Errorf("%w: store path required", ErrInputMissing)
	}

	parserImpl, err := selectParser(&cfg)
	if err != nil {
		return Summary{}, err
	}

	runID := uuid.NewString()
	logger := cfg.Logger.New("run_id", runID, "filesystem", cfg.Filesystem)

	lock, err := store.AcquireLock(cfg.StorePath)
	if err != nil {
		return Summary{}, err
	}
	defer lock.Release() //nolint:errcheck

	st, err := store.Open(cfg.StorePath, cfg.ReplaceExisting)
	if err != nil {
		return Summary{}, err
	}
	defer st.Close() //nolint:errcheck

	start := time.Now()

	p := &pipeline{cfg: cfg, parser: parserImpl, store: st, logger: logger}

	pathToID, err := p.pass1()
	if err != nil {
		return Summary{}, fmt.Errorf("pass1 (directory discovery): %w", err)
	}

	p.dirCount = int64(len(pathToID))

	logger.Info("pass1 complete", "directories", len(pathToID))

	if err := p.pass2a(pathToID); err != nil {
		return Summary{}, fmt.Errorf("pass2a (non-recursive accumulation): %w", err)
	}

	if err := p.pass2b(); err != nil {
		return Summary{}, fmt.Errorf("pass2b (recursive aggregation): %w", err)
	}

	if err := p.pass3(); err != nil {
		return Summary{}, fmt.Errorf("pass3 (summaries and metadata): %w", err)
	}

	summary := Summary{
		RunID:       runID,
		Filesystem:  cfg.Filesystem,
		StorePath:   cfg.StorePath,
		Directories: p.dirCount,
		Files:       p.totals.TotalFiles,
		TotalSize:   p.totals.TotalSize,
		Anomalies:   p.anomalies,
		Elapsed:     time.Since(start),
	}

	logSummary(logger, summary)

	return summary, nil
}

// selectParser resolves cfg's explicit format name, or auto-detects from
// the input file's basename when none was given (§4.1).
func selectParser(cfg *Config) (parser.Parser, error) {
	if cfg.Format != "" {
		return cfg.Registry.ByName(cfg.Format)
	}

	p, ok := cfg.Registry.Detect(filepath.Base(cfg.InputFile))
	if !ok {
		return nil, ErrUnknownFormat
	}

	return p, nil
}

// feedChunks drives r in its own goroutine, sending every non-empty
// chunk on out and closing both out and the returned error channel once
// the input is exhausted or a read failure occurs.
func feedChunks(r *reader.Reader, out chan<- reader.Chunk) <-chan error {
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		for {
			chunk, ok, err := r.Next()
			if len(chunk.Lines) > 0 {
				out <- chunk
			}

			if err != nil {
				errCh <- err

				return
			}

			if !ok {
				return
			}
		}
	}()

	return errCh
}

// pass1 streams directory-only entries into the staging table (Phase
// 1a), then materializes the directory tree depth by depth (Phase 1b),
// returning the completed path→dir_id map (§4.4).
func (p *pipeline) pass1() (map[string]int64, error) {
	if err := p.store.CreateStagingTable(); err != nil {
		return nil, err
	}

	r, err := reader.New(p.cfg.InputFile, reader.DefaultChunkBytes, p.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	defer r.Close() //nolint:errcheck

	chunks := make(chan reader.Chunk, p.cfg.WorkerCount*2)
	readErrCh := feedChunks(r, chunks)

	pool := &WorkerPool{Parser: p.parser, Mode: PassDirs, WorkerCount: p.cfg.WorkerCount}
	results, wait := pool.Run(chunks)

	progress := newProgressTracker(p.logger, "pass1.directories")

	var pendingStaged []store.StagedDir

	for result := range results {
		p.anomalies.ParseSkip += result.ParseSkips

		for _, d := range result.DiscoveredDir {
			pendingStaged = append(pendingStaged, store.StagedDir{
				Inode:     d.Inode,
				FilesetID: d.FilesetID,
				Depth:     strings.Count(d.Path, "/"),
				Path:      d.Path,
			})
		}

		if len(pendingStaged) >= p.cfg.BatchSize {
			if err := p.store.InsertStagingBatch(pendingStaged); err != nil {
				return nil, err
			}

			pendingStaged = nil
		}

		progress.Add(int64(result.LinesInChunk))
	}

	if err := p.store.InsertStagingBatch(pendingStaged); err != nil {
		return nil, err
	}

	if err := wait(); err != nil {
		return nil, err
	}

	if err := <-readErrCh; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}

	if err := p.store.IndexStagingByDepth(); err != nil {
		return nil, err
	}

	pathToID, err := p.materializeTree()
	if err != nil {
		return nil, err
	}

	if err := p.store.DropStagingTable(); err != nil {
		return nil, err
	}

	return pathToID, nil
}

// materializeTree runs Phase 1b: ascending-depth materialization of the
// staged directories into the persistent tree, synthesizing each
// directory's contribution to its parent's dir_count_nr along the way.
func (p *pipeline) materializeTree() (map[string]int64, error) {
	depths, err := p.store.StagingDepths()
	if err != nil {
		return nil, err
	}

	pathToID := make(map[string]int64)
	dirCountDeltas := make(map[int64]int64)

	for _, depth := range depths {
		paths, err := p.store.StagingPathsAtDepth(depth)
		if err != nil {
			return nil, err
		}

		newDirs := make([]store.NewDirectory, 0, len(paths))

		for _, path := range paths {
			parentPath, name := store.SplitParentPath(path)

			var parentID *int64

			if id, ok := pathToID[parentPath]; ok {
				v := id
				parentID = &v
			}

			newDirs = append(newDirs, store.NewDirectory{
				ParentID: parentID,
				Name:     name,
				Depth:    depth,
				Path:     path,
			})
		}

		materialized, err := p.store.MaterializeDirectories(newDirs)
		if err != nil {
			return nil, err
		}

		for path, id := range materialized {
			pathToID[path] = id
		}

		for _, d := range newDirs {
			if d.ParentID != nil {
				dirCountDeltas[*d.ParentID]++
			}
		}
	}

	if err := p.store.IncrementDirCounts(dirCountDeltas); err != nil {
		return nil, err
	}

	return pathToID, nil
}

// pass2a streams file entries, accumulating per-directory non-recursive
// deltas and per-owner histograms, flushing the former at cfg.BatchSize
// and the latter once at the end (§4.5).
func (p *pipeline) pass2a(pathToID map[string]int64) error {
	r, err := reader.New(p.cfg.InputFile, reader.DefaultChunkBytes, p.logger)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	defer r.Close() //nolint:errcheck

	chunks := make(chan reader.Chunk, p.cfg.WorkerCount*2)
	readErrCh := feedChunks(r, chunks)

	scanDate, hasScanDate := ExtractScanTimestamp(p.cfg.InputFile)

	pool := &WorkerPool{
		Parser:      p.parser,
		Mode:        PassFiles,
		ScanDate:    scanDate,
		HasScanDate: hasScanDate,
		WorkerCount: p.cfg.WorkerCount,
	}
	results, wait := pool.Run(chunks)

	pending := make(map[int64]*DirStatsDelta)
	pendingHist := histogram.NewPerOwner()
	progress := newProgressTracker(p.logger, "pass2a.files")

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}

		deltas := make([]store.NRDelta, 0, len(pending))

		for dirID, d := range pending {
			deltas = append(deltas, store.NRDelta{
				DirID:     dirID,
				FileCount: d.FileCount,
				TotalSize: d.TotalSize,
				MaxAtime:  d.MaxAtime,
				DirCount:  d.DirCount,
				OwnerUID:  d.OwnerUID,
				OwnerGID:  d.OwnerGID,
			})
		}

		if err := p.store.FlushNRUpdates(deltas); err != nil {
			return err
		}

		pending = make(map[int64]*DirStatsDelta)

		return nil
	}

	for result := range results {
		p.anomalies.ParseSkip += result.ParseSkips
		p.anomalies.TimestampAnomaly += result.TimestampAnomalies

		for parentPath, delta := range result.Dirs {
			dirID, ok := pathToID[parentPath]
			if !ok {
				p.anomalies.UnattributedParent++

				continue
			}

			existing := pending[dirID]
			if existing == nil {
				existing = &DirStatsDelta{}
				pending[dirID] = existing
			}

			existing.Merge(delta)
		}

		pendingHist.Merge(result.Histograms)

		if len(pending) >= p.cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}

		progress.Add(int64(result.LinesInChunk))
	}

	if err := flush(); err != nil {
		return err
	}

	if err := wait(); err != nil {
		return err
	}

	if err := <-readErrCh; err != nil {
		return fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}

	return p.store.FlushHistograms(pendingHist.Access, pendingHist.Size)
}

// pass2b runs the bottom-up recursive aggregator, depth-descending from
// the tree's maximum depth to 1 (§4.6).
func (p *pipeline) pass2b() error {
	maxDepth, err := p.store.MaxDepth()
	if err != nil {
		return err
	}

	for depth := maxDepth; depth >= 1; depth-- {
		if err := p.store.AggregateRecursiveStatsAtDepth(depth); err != nil {
			return err
		}
	}

	return nil
}

// identityCachePath derives the on-disk location of the persisted
// host-lookup cache from the store path, so a repeat ingest against the
// same store (and presumably the same host) can skip redundant
// passwd/group lookups.
func identityCachePath(storePath string) string {
	return storePath + ".identitycache"
}

// pass3 resolves distinct uids/gids to host names, rebuilds the owner
// and group summaries, and records the scan-metadata provenance row
// (§4.7).
func (p *pipeline) pass3() error {
	cachePath := identityCachePath(p.cfg.StorePath)

	cache := owner.NewIdentityCache()
	if err := cache.LoadFromFile(cachePath); err != nil {
		p.logger.Warn("identity cache load failed, starting empty", "err", err)
	}

	uids, err := p.store.DistinctUIDs()
	if err != nil {
		return err
	}

	for _, uid := range uids {
		id := cache.User(uid)
		if !id.Resolved {
			p.anomalies.HostLookupMiss++
		}

		if err := p.store.UpsertUserInfo(uid, id.Username, id.GECOS); err != nil {
			return err
		}
	}

	gids, err := p.store.DistinctGIDs()
	if err != nil {
		return err
	}

	for _, gid := range gids {
		id := cache.Group(gid)
		if !id.Resolved {
			p.anomalies.HostLookupMiss++
		}

		if err := p.store.UpsertGroupInfo(gid, id.Name); err != nil {
			return err
		}
	}

	if err := cache.SaveToFile(cachePath); err != nil {
		p.logger.Warn("identity cache save failed", "err", err)
	}

	if err := p.store.RecomputeOwnerSummary(); err != nil {
		return err
	}

	if err := p.store.RecomputeGroupSummary(); err != nil {
		return err
	}

	totals, err := p.store.RootTotals()
	if err != nil {
		return err
	}

	p.totals = totals

	var scanTS *int64

	if ts, ok := ExtractScanTimestamp(p.cfg.InputFile); ok {
		scanTS = &ts
	}

	return p.store.InsertScanMetadata(store.ScanMetadata{
		SourceFile:       filepath.Base(p.cfg.InputFile),
		ScanTimestamp:    scanTS,
		ImportTimestamp:  time.Now(),
		Filesystem:       p.cfg.Filesystem,
		TotalDirectories: p.dirCount,
		TotalFiles:       totals.TotalFiles,
		TotalSize:        totals.TotalSize,
	})
}
