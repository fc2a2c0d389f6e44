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
	"github.com/wtsi-hgi/fsscan/owner"
)

// NRDelta is one pending non-recursive update for a single directory,
// accumulated in the ingest coordinator across many worker chunks before
// being flushed in a single batched statement.
type NRDelta struct {
	DirID     int64
	FileCount int64
	TotalSize int64
	MaxAtime  *int64
	DirCount  int64
	OwnerUID  owner.Owner
	OwnerGID  owner.Owner
}

const flushNRUpdateSQL = `
UPDATE directory_stats SET
	file_count_nr = file_count_nr + ?,
	total_size_nr = total_size_nr + ?,
	dir_count_nr = dir_count_nr + ?,
	max_atime_nr = CASE
		WHEN max_atime_nr IS NULL THEN ?
		WHEN ? IS NULL THEN max_atime_nr
		WHEN ? > max_atime_nr THEN ?
		ELSE max_atime_nr
	END,
	owner_uid = CASE
		WHEN owner_uid = -1 THEN ?
		WHEN ? IS NULL THEN NULL
		WHEN owner_uid IS NULL THEN NULL
		WHEN owner_uid != ? THEN NULL
		ELSE owner_uid
	END,
	owner_gid = CASE
		WHEN owner_gid = -1 THEN ?
		WHEN ? IS NULL THEN NULL
		WHEN owner_gid IS NULL THEN NULL
		WHEN owner_gid != ? THEN NULL
		ELSE owner_gid
	END
WHERE dir_id = ?
`

// FlushNRUpdates applies a batch of pending non-recursive deltas in a
// single transaction, one prepared-statement execution per directory.
// Deltas is consumed but not reset — the caller is responsible for
// replacing its pending map with a fresh allocation after a successful
// flush, per §4.5's "fresh allocation, not in-place clear" contract.
func (s *Store) FlushNRUpdates(deltas []NRDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(flushNRUpdateSQL)
	if err != nil {
		tx.Rollback()

		return err
	}

	for _, d := range deltas {
		uidParam := sentinelParam(d.OwnerUID)
		gidParam := sentinelParam(d.OwnerGID)

		if _, err := stmt.Exec(
			d.FileCount, d.TotalSize, d.DirCount,
			d.MaxAtime, d.MaxAtime, d.MaxAtime, d.MaxAtime,
			uidParam, uidParam, uidParam,
			gidParam, gidParam, gidParam,
			d.DirID,
		); err != nil {
			stmt.Close()
			tx.Rollback()

			return err
		}
	}

	stmt.Close()

	return tx.Commit()
}

// sentinelParam converts an owner.Owner delta into the nullable integer
// parameter flushNRUpdateSQL expects: -1 for unseen, the value for
// single, and SQL NULL for multiple.
func sentinelParam(o owner.Owner) interface{} {
	v, valid := o.ToSentinel()
	if !valid {
		return nil
	}

	return v
}

// IncrementDirCounts applies Pass 1's synthesized `dir_count_nr += 1` per
// parent directory, batched by depth level. It touches only dir_count_nr,
// deliberately bypassing the owner-lattice CASE logic in FlushNRUpdates:
// a directory-count-only delta carries no file-owner information, and
// routing it through FlushNRUpdates' owner columns would require a
// sentinel meaning "no contribution", which the unseen (-1) encoding
// cannot safely express once a directory's owner is already a concrete
// single value.
func (s *Store) IncrementDirCounts(counts map[int64]int64) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("UPDATE directory_stats SET dir_count_nr = dir_count_nr + ? WHERE dir_id = ?")
	if err != nil {
		tx.Rollback()

		return err
	}

	for dirID, delta := range counts {
		if _, err := stmt.Exec(delta, dirID); err != nil {
			stmt.Close()
			tx.Rollback()

			return err
		}
	}

	stmt.Close()

	return tx.Commit()
}

const initializeRecursiveAtDepthSQL = `
UPDATE directory_stats
SET
	file_count_r = file_count_nr,
	total_size_r = total_size_nr,
	max_atime_r = max_atime_nr,
	dir_count_r = dir_count_nr
WHERE dir_id IN (SELECT dir_id FROM directories WHERE depth = ?)
`

const accumulateChildrenSQL = `
WITH child_agg AS (
	SELECT
		d.parent_id,
		SUM(s.file_count_r) AS sum_files,
		SUM(s.total_size_r) AS sum_size,
		SUM(s.dir_count_r) AS sum_dirs,
		MAX(s.max_atime_r) AS max_atime,
		MAX(CASE WHEN s.owner_uid IS NULL THEN 1 ELSE 0 END) AS has_uid_conflict,
		COUNT(DISTINCT CASE WHEN s.owner_uid >= 0 THEN s.owner_uid END) AS distinct_valid_owners,
		MAX(CASE WHEN s.owner_uid >= 0 THEN s.owner_uid END) AS common_owner,
		MAX(CASE WHEN s.owner_gid IS NULL THEN 1 ELSE 0 END) AS has_gid_conflict,
		COUNT(DISTINCT CASE WHEN s.owner_gid >= 0 THEN s.owner_gid END) AS distinct_valid_groups,
		MAX(CASE WHEN s.owner_gid >= 0 THEN s.owner_gid END) AS common_group
	FROM directories d
	JOIN directory_stats s ON d.dir_id = s.dir_id
	WHERE d.depth = ?
	GROUP BY d.parent_id
)
UPDATE directory_stats
SET
	file_count_r = file_count_r + agg.sum_files,
	total_size_r = total_size_r + agg.sum_size,
	dir_count_r = dir_count_r + agg.sum_dirs,
	max_atime_r = CASE
		WHEN agg.max_atime IS NULL THEN max_atime_r
		WHEN max_atime_r IS NULL OR agg.max_atime > max_atime_r THEN agg.max_atime
		ELSE max_atime_r
	END,
	owner_uid = CASE
		WHEN owner_uid IS NULL THEN NULL
		WHEN owner_uid >= 0 THEN
			CASE
				WHEN agg.has_uid_conflict = 1 THEN NULL
				WHEN agg.distinct_valid_owners > 0 AND agg.common_owner != owner_uid THEN NULL
				ELSE owner_uid
			END
		ELSE
			CASE
				WHEN agg.has_uid_conflict = 1 THEN NULL
				WHEN agg.distinct_valid_owners > 1 THEN NULL
				WHEN agg.distinct_valid_owners = 1 THEN agg.common_owner
				ELSE -1
			END
	END,
	owner_gid = CASE
		WHEN owner_gid IS NULL THEN NULL
		WHEN owner_gid >= 0 THEN
			CASE
				WHEN agg.has_gid_conflict = 1 THEN NULL
				WHEN agg.distinct_valid_groups > 0 AND agg.common_group != owner_gid THEN NULL
				ELSE owner_gid
			END
		ELSE
			CASE
				WHEN agg.has_gid_conflict = 1 THEN NULL
				WHEN agg.distinct_valid_groups > 1 THEN NULL
				WHEN agg.distinct_valid_groups = 1 THEN agg.common_group
				ELSE -1
			END
	END
FROM child_agg AS agg
WHERE directory_stats.dir_id = agg.parent_id
`

// MaxDepth returns the deepest directory depth recorded, or 0 if the
// tree is empty.
func (s *Store) MaxDepth() (int, error) {
	var depth int

	row := s.db.QueryRow("SELECT COALESCE(MAX(depth), 0) FROM directories")

	return depth, row.Scan(&depth)
}

// AggregateRecursiveStatsAtDepth performs Pass 2b's bottom-up step for a
// single depth: initialize this level's recursive fields from its
// non-recursive fields, then fold in the already-aggregated recursive
// fields of its depth+1 children. The caller must iterate from max depth
// down to 1; each call is one transactional unit.
func (s *Store) AggregateRecursiveStatsAtDepth(depth int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(initializeRecursiveAtDepthSQL, depth); err != nil {
		tx.Rollback()

		return err
	}

	if _, err := tx.Exec(accumulateChildrenSQL, depth+1); err != nil {
		tx.Rollback()

		return err
	}

	return tx.Commit()
}
