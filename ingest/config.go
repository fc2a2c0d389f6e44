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
	"path/filepath"
	"regexp"
	"time"

	"github.com/inconshreveable/log15"

	"github.com/wtsi-hgi/fsscan/parser"
)

const (
	// DefaultBatchSize is the number of pending directory deltas the
	// coordinator accumulates before flushing to the store (§6).
	DefaultBatchSize = 10000
	// DefaultWorkerCount is the number of parallel chunk-parsing workers
	// used when the caller does not specify one (§6).
	DefaultWorkerCount = 4
)

// Config carries one ingest run's parameters, replacing the source's
// process-wide globals (data-directory override, parser registry) with
// an explicit value threaded through the pipeline (§9 Design Notes).
type Config struct {
	InputFile      string
	Format         string // explicit format name, or "" to auto-detect
	Filesystem     string // explicit filesystem name, or "" to derive from the file name
	StorePath      string
	BatchSize      int
	WorkerCount    int
	ReplaceExisting bool
	Registry       *parser.Registry
	Logger         log15.Logger
}

// Normalize fills in defaults for zero-valued fields and derives the
// filesystem name from the input file name when not supplied.
func (c *Config) Normalize() {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}

	if c.WorkerCount <= 0 {
		c.WorkerCount = DefaultWorkerCount
	}

	if c.Registry == nil {
		c.Registry = parser.Default()
	}

	if c.Logger == nil {
		c.Logger = log15.New()
	}

	if c.Filesystem == "" {
		c.Filesystem = deriveFilesystemName(c.InputFile)
	}
}

var scanFileNamePattern = regexp.MustCompile(`^(\d{8})_[^_]+_([^.]+)\.`)

// deriveFilesystemName extracts the filesystem component of a
// `YYYYMMDD_server_filesystem.ext` scan file name, falling back to the
// base name (extension stripped) when the pattern doesn't match.
func deriveFilesystemName(inputFile string) string {
	base := filepath.Base(inputFile)

	if m := scanFileNamePattern.FindStringSubmatch(base); m != nil {
		return m[2]
	}

	ext := filepath.Ext(base)

	return base[:len(base)-len(ext)]
}

// ExtractScanTimestamp parses the `YYYYMMDD` prefix of a scan file name
// into a Unix timestamp (midnight UTC), returning false when the name
// doesn't carry one.
func ExtractScanTimestamp(inputFile string) (int64, bool) {
	base := filepath.Base(inputFile)

	m := scanFileNamePattern.FindStringSubmatch(base)
	if m == nil {
		return 0, false
	}

	t, err := time.Parse("20060102", m[1])
	if err != nil {
		return 0, false
	}

	return t.Unix(), true
}
