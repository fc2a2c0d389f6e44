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
	"github.com/dustin/go-humanize"
	"github.com/inconshreveable/log15"
)

// progressReportEvery is the line count between periodic progress log
// lines during Pass 1 and Pass 2a, mirroring the source's periodic
// "N processed" stderr lines.
const progressReportEvery = 1_000_000

// progressTracker logs a running line count at fixed intervals, with
// large counts rendered via humanize.Comma the way the source's summary
// line formats them.
type progressTracker struct {
	logger  log15.Logger
	label   string
	count   int64
	nextLog int64
}

func newProgressTracker(logger log15.Logger, label string) *progressTracker {
	return &progressTracker{logger: logger, label: label, nextLog: progressReportEvery}
}

// Add records n more processed lines, logging once the running count
// crosses the next report threshold.
func (t *progressTracker) Add(n int64) {
	t.count += n

	if t.count >= t.nextLog {
		t.logger.Info(t.label, "lines", humanize.Comma(t.count))
		t.nextLog += progressReportEvery
	}
}

// logSummary logs the final per-run totals and anomaly counts.
func logSummary(logger log15.Logger, s Summary) {
	logger.Info("ingest complete",
		"filesystem", s.Filesystem,
		"directories", humanize.Comma(s.Directories),
		"files", humanize.Comma(s.Files),
		"total_size", humanize.Comma(s.TotalSize),
		"parse_skips", humanize.Comma(s.Anomalies.ParseSkip),
		"unattributed_parents", humanize.Comma(s.Anomalies.UnattributedParent),
		"host_lookup_misses", humanize.Comma(s.Anomalies.HostLookupMiss),
		"timestamp_anomalies", humanize.Comma(s.Anomalies.TimestampAnomaly),
		"elapsed", s.Elapsed.String(),
	)
}
