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

package store

import (
	"database/sql"

	"github.com/wtsi-hgi/fsscan/histogram"
	"github.com/wtsi-hgi/fsscan/owner"
)

// FlushHistograms bulk-inserts the accumulated per-owner access-age and
// file-size vectors, skipping empty buckets. Called once at the end of
// Pass 2a after every worker chunk has been merged into the pending
// accumulator.
func (s *Store) FlushHistograms(access, size map[uint32]*histogram.Vector) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if err := flushHistogramTable(tx, "access_histogram", access, histogram.AccessBucketCount); err != nil {
		tx.Rollback()

		return err
	}

	if err := flushHistogramTable(tx, "size_histogram", size, histogram.SizeBucketCount); err != nil {
		tx.Rollback()

		return err
	}

	return tx.Commit()
}

func flushHistogramTable(tx *sql.Tx, table string, vectors map[uint32]*histogram.Vector, bucketCount int) error {
	if len(vectors) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(
		"INSERT INTO " + table + " (owner_uid, bucket_index, file_count, total_size) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, uid := range owner.SortedKeys(vectors) {
		v := vectors[uid]

		for bucket := 0; bucket < bucketCount; bucket++ {
			if v.Count[bucket] == 0 {
				continue
			}

			if _, err := stmt.Exec(uid, bucket, v.Count[bucket], v.TotalSize[bucket]); err != nil {
				return err
			}
		}
	}

	return nil
}
