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

import "time"

// DistinctUIDs returns every owner_uid seen in directory_stats,
// excluding the unseen (-1) and multiple (NULL) sentinels, for Pass 3
// host-name resolution.
func (s *Store) DistinctUIDs() ([]uint32, error) {
	return s.distinctOwnerColumn("owner_uid")
}

// DistinctGIDs is the gid equivalent of DistinctUIDs.
func (s *Store) DistinctGIDs() ([]uint32, error) {
	return s.distinctOwnerColumn("owner_gid")
}

func (s *Store) distinctOwnerColumn(column string) ([]uint32, error) {
	rows, err := s.db.Query(
		"SELECT DISTINCT " + column + " FROM directory_stats WHERE " + column + " IS NOT NULL AND " + column + " >= 0",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []uint32

	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}

		values = append(values, uint32(v)) //nolint:gosec
	}

	return values, rows.Err()
}

// UpsertUserInfo records the host-resolved username/full name for uid.
// A failed lookup is recorded with both fields empty — never fatal.
func (s *Store) UpsertUserInfo(uid uint32, username, fullName string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO user_info (uid, username, full_name) VALUES (?, ?, ?)",
		uid, nullableString(username), nullableString(fullName),
	)

	return err
}

// UpsertGroupInfo is the group equivalent of UpsertUserInfo.
func (s *Store) UpsertGroupInfo(gid uint32, groupname string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO group_info (gid, groupname) VALUES (?, ?)",
		gid, nullableString(groupname),
	)

	return err
}

func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}

	return v
}

// RecomputeOwnerSummary clears and rebuilds owner_summary by grouping
// directory_stats on owner_uid.
func (s *Store) RecomputeOwnerSummary() error {
	return s.recomputeSummary("owner_summary", "owner_uid")
}

// RecomputeGroupSummary is the group equivalent of RecomputeOwnerSummary.
func (s *Store) RecomputeGroupSummary() error {
	return s.recomputeSummary("group_summary", "owner_gid")
}

func (s *Store) recomputeSummary(table, column string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		tx.Rollback()

		return err
	}

	_, err = tx.Exec(`
		INSERT INTO ` + table + ` (` + column + `, total_size, total_files, directory_count)
		SELECT
			` + column + `,
			SUM(total_size_nr),
			SUM(file_count_nr),
			COUNT(*)
		FROM directory_stats
		WHERE ` + column + ` IS NOT NULL AND ` + column + ` >= 0
		GROUP BY ` + column + `
	`)
	if err != nil {
		tx.Rollback()

		return err
	}

	return tx.Commit()
}

// RootTotals sums the recursive file/size stats over every directory
// with no parent (a filesystem mount root), for the tree-wide totals
// recorded in ScanMetadata. The directory count itself is not a root
// total: it is the full count of directories discovered in Pass 1 (the
// ingest pipeline's path-to-id count), since a tree can have more than
// one root.
type RootTotals struct {
	TotalFiles int64
	TotalSize  int64
}

func (s *Store) RootTotals() (RootTotals, error) {
	var t RootTotals

	row := s.db.QueryRow(`
		SELECT
			COALESCE(SUM(s.file_count_r), 0),
			COALESCE(SUM(s.total_size_r), 0)
		FROM directories d
		JOIN directory_stats s ON s.dir_id = d.dir_id
		WHERE d.parent_id IS NULL
	`)

	err := row.Scan(&t.TotalFiles, &t.TotalSize)

	return t, err
}

// ScanMetadata is the single provenance row recorded at the end of
// Pass 3.
type ScanMetadata struct {
	SourceFile        string
	ScanTimestamp     *int64
	ImportTimestamp   time.Time
	Filesystem        string
	TotalDirectories  int64
	TotalFiles        int64
	TotalSize         int64
}

// InsertScanMetadata records one ScanMetadata row.
func (s *Store) InsertScanMetadata(m ScanMetadata) error {
	_, err := s.db.Exec(`
		INSERT INTO scan_metadata
			(source_file, scan_timestamp, import_timestamp, filesystem,
			 total_directories, total_files, total_size)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		m.SourceFile, m.ScanTimestamp, m.ImportTimestamp.Unix(), m.Filesystem,
		m.TotalDirectories, m.TotalFiles, m.TotalSize,
	)

	return err
}
