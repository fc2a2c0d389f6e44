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

// package ingest orchestrates the two-pass, parallel scan-log ingestion
// pipeline: directory discovery, non-recursive statistics and histogram
// accumulation, bottom-up recursive aggregation, and summary-table
// population.
package ingest

// Error is the package's sentinel error type for the fatal error kinds of
// the pipeline's error handling design. Recoverable conditions (ParseSkip,
// HostLookupMiss, TimestampAnomaly, UnattributedParent) are counted rather
// than returned as errors; see Summary.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrInputMissing is returned when the input file does not exist.
	ErrInputMissing = Error("ingest: input file missing")
	// ErrInputUnreadable is returned when the input file exists but
	// cannot be opened or decompressed.
	ErrInputUnreadable = Error("ingest: input file unreadable")
	// ErrUnknownFormat is returned when no parser matches the input and
	// no explicit format was supplied.
	ErrUnknownFormat = Error("ingest: unknown scan format")
	// ErrWorkerFailure is returned when a worker goroutine reports an
	// error; the chunks still queued are drained without being processed.
	ErrWorkerFailure = Error("ingest: worker failure")
	// ErrStoreViolation indicates a uniqueness or foreign-key constraint
	// was violated, implying a bug in the staging/insert logic.
	ErrStoreViolation = Error("ingest: store constraint violation")
)

// AnomalyCounts tallies the recoverable error kinds encountered during a
// run, surfaced in the final ingest summary rather than failing the run.
type AnomalyCounts struct {
	ParseSkip          int64
	HostLookupMiss     int64
	TimestampAnomaly   int64
	UnattributedParent int64
}
