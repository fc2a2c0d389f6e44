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
	"fmt"
	"strings"
)

// StagedDir is one row of the Pass 1 Phase 1a staging table: a
// directory entry observed in the scan log, keyed for deduplication by
// (fileset_id, inode) when those identities are available.
type StagedDir struct {
	Inode     uint64
	FilesetID uint64
	Depth     int
	Path      string
}

// CreateStagingTable (re)creates the temporary staging_dirs table used
// during Pass 1 Phase 1a, dropping any leftover table from a previous
// run first so the cleanup delay happens upfront.
func (s *Store) CreateStagingTable() error {
	if _, err := s.db.Exec(dropStagingDirsDDL); err != nil {
		return err
	}

	_, err := s.db.Exec(stagingDirsDDL)

	return err
}

// IndexStagingByDepth adds the depth index used by Phase 1b's
// level-by-level scan. Called once Phase 1a has finished inserting.
func (s *Store) IndexStagingByDepth() error {
	_, err := s.db.Exec(stagingDirsDepthIndexDDL)

	return err
}

// DropStagingTable removes staging_dirs once Phase 1b has fully
// materialized the directory tree.
func (s *Store) DropStagingTable() error {
	_, err := s.db.Exec(dropStagingDirsDDL)

	return err
}

// InsertStagingBatch bulk-inserts dirs into staging_dirs, ignoring
// duplicate (fileset_id, inode) pairs.
func (s *Store) InsertStagingBatch(dirs []StagedDir) error {
	if len(dirs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO staging_dirs (inode, fileset_id, depth, path) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()

		return err
	}

	for _, d := range dirs {
		if _, err := stmt.Exec(d.Inode, d.FilesetID, d.Depth, d.Path); err != nil {
			stmt.Close()
			tx.Rollback()

			return err
		}
	}

	stmt.Close()

	return tx.Commit()
}

// StagingDepths returns the distinct depths present in staging_dirs, in
// ascending order, for Phase 1b's level-by-level materialization.
func (s *Store) StagingDepths() ([]int, error) {
	rows, err := s.db.Query("SELECT DISTINCT depth FROM staging_dirs ORDER BY depth")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var depths []int

	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}

		depths = append(depths, d)
	}

	return depths, rows.Err()
}

// StagingPathsAtDepth returns every staged path at the given depth, in
// insertion order (rowid order), which Phase 1b relies on to assign
// dense, sequential dir_ids.
func (s *Store) StagingPathsAtDepth(depth int) ([]string, error) {
	rows, err := s.db.Query("SELECT path FROM staging_dirs WHERE depth = ? ORDER BY rowid", depth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string

	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}

		paths = append(paths, p)
	}

	return paths, rows.Err()
}

// NewDirectory is one row to materialize into directories (and its
// accompanying zero-valued directory_stats row).
type NewDirectory struct {
	ParentID *int64
	Name     string
	Depth    int
	Path     string
}

// MaterializeDirectories bulk-inserts dirs into directories and a
// matching zero/unseen directory_stats row for each, returning a map
// from path to the dense dir_id SQLite assigned. Each depth level is a
// single transactional unit.
func (s *Store) MaterializeDirectories(dirs []NewDirectory) (map[string]int64, error) {
	if len(dirs) == 0 {
		return map[string]int64{}, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	dirStmt, err := tx.Prepare("INSERT INTO directories (parent_id, name, depth) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()

		return nil, err
	}

	statsStmt, err := tx.Prepare("INSERT OR IGNORE INTO directory_stats (dir_id) VALUES (?)")
	if err != nil {
		dirStmt.Close()
		tx.Rollback()

		return nil, err
	}

	pathToID := make(map[string]int64, len(dirs))

	for _, d := range dirs {
		res, err := dirStmt.Exec(d.ParentID, d.Name, d.Depth)
		if err != nil {
			dirStmt.Close()
			statsStmt.Close()
			tx.Rollback()

			return nil, fmt.Errorf("inserting directory %q: %w", d.Path, err)
		}

		dirID, err := res.LastInsertId()
		if err != nil {
			dirStmt.Close()
			statsStmt.Close()
			tx.Rollback()

			return nil, err
		}

		if _, err := statsStmt.Exec(dirID); err != nil {
			dirStmt.Close()
			statsStmt.Close()
			tx.Rollback()

			return nil, err
		}

		pathToID[d.Path] = dirID
	}

	dirStmt.Close()
	statsStmt.Close()

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return pathToID, nil
}

// SplitParentPath decomposes a slash-separated absolute path into its
// parent path and final component name, matching the Python importer's
// `str.rpartition('/')` behaviour including the top-level case where the
// parent is empty (e.g. "/gpfs" gives parent "" and name "gpfs"). Only
// when the final component is empty (e.g. "/") does the whole path
// become the name.
func SplitParentPath(path string) (parent, name string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}

	parent, name = path[:idx], path[idx+1:]
	if name == "" {
		name = path
	}

	return parent, name
}
