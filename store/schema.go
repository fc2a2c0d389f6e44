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

// package store persists a single filesystem's directory tree, statistics,
// histograms, and summaries to a SQLite database, and implements the
// set-based bulk operations the ingest pipeline drives it with.
package store

const schemaDDL = `
CREATE TABLE IF NOT EXISTS directories (
	dir_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	parent_id  INTEGER REFERENCES directories(dir_id),
	name       TEXT NOT NULL,
	depth      INTEGER NOT NULL,
	UNIQUE (parent_id, name)
);

CREATE INDEX IF NOT EXISTS idx_directories_parent ON directories(parent_id);
CREATE INDEX IF NOT EXISTS idx_directories_depth ON directories(depth);

CREATE TABLE IF NOT EXISTS directory_stats (
	dir_id          INTEGER PRIMARY KEY REFERENCES directories(dir_id),
	file_count_nr   INTEGER NOT NULL DEFAULT 0,
	file_count_r    INTEGER NOT NULL DEFAULT 0,
	total_size_nr   INTEGER NOT NULL DEFAULT 0,
	total_size_r    INTEGER NOT NULL DEFAULT 0,
	max_atime_nr    INTEGER,
	max_atime_r     INTEGER,
	dir_count_nr    INTEGER NOT NULL DEFAULT 0,
	dir_count_r     INTEGER NOT NULL DEFAULT 0,
	owner_uid       INTEGER DEFAULT -1,
	owner_gid       INTEGER DEFAULT -1
);

CREATE INDEX IF NOT EXISTS idx_dirstats_size_r ON directory_stats(total_size_r);
CREATE INDEX IF NOT EXISTS idx_dirstats_count_r ON directory_stats(file_count_r);
CREATE INDEX IF NOT EXISTS idx_dirstats_atime_r ON directory_stats(max_atime_r);
CREATE INDEX IF NOT EXISTS idx_dirstats_uid_size ON directory_stats(owner_uid, total_size_r);
CREATE INDEX IF NOT EXISTS idx_dirstats_uid_count ON directory_stats(owner_uid, file_count_r);
CREATE INDEX IF NOT EXISTS idx_dirstats_gid_size ON directory_stats(owner_gid, total_size_r);
CREATE INDEX IF NOT EXISTS idx_dirstats_gid_count ON directory_stats(owner_gid, file_count_r);

CREATE TABLE IF NOT EXISTS access_histogram (
	owner_uid    INTEGER NOT NULL,
	bucket_index INTEGER NOT NULL,
	file_count   INTEGER NOT NULL DEFAULT 0,
	total_size   INTEGER NOT NULL DEFAULT 0,
	UNIQUE (owner_uid, bucket_index)
);

CREATE TABLE IF NOT EXISTS size_histogram (
	owner_uid    INTEGER NOT NULL,
	bucket_index INTEGER NOT NULL,
	file_count   INTEGER NOT NULL DEFAULT 0,
	total_size   INTEGER NOT NULL DEFAULT 0,
	UNIQUE (owner_uid, bucket_index)
);

CREATE TABLE IF NOT EXISTS owner_summary (
	owner_uid       INTEGER PRIMARY KEY,
	total_size      INTEGER NOT NULL DEFAULT 0,
	total_files     INTEGER NOT NULL DEFAULT 0,
	directory_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS group_summary (
	owner_gid       INTEGER PRIMARY KEY,
	total_size      INTEGER NOT NULL DEFAULT 0,
	total_files     INTEGER NOT NULL DEFAULT 0,
	directory_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS user_info (
	uid       INTEGER PRIMARY KEY,
	username  TEXT,
	full_name TEXT
);

CREATE TABLE IF NOT EXISTS group_info (
	gid       INTEGER PRIMARY KEY,
	groupname TEXT
);

CREATE TABLE IF NOT EXISTS scan_metadata (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	source_file        TEXT NOT NULL,
	scan_timestamp     INTEGER,
	import_timestamp   INTEGER NOT NULL,
	filesystem         TEXT NOT NULL,
	total_directories  INTEGER NOT NULL,
	total_files        INTEGER NOT NULL,
	total_size         INTEGER NOT NULL
);
`

const stagingDirsDDL = `
CREATE TABLE IF NOT EXISTS staging_dirs (
	inode      INTEGER NOT NULL,
	fileset_id INTEGER NOT NULL,
	depth      INTEGER NOT NULL,
	path       TEXT NOT NULL,
	PRIMARY KEY (fileset_id, inode)
);
`

const dropStagingDirsDDL = `DROP TABLE IF EXISTS staging_dirs;`

const stagingDirsDepthIndexDDL = `CREATE INDEX IF NOT EXISTS idx_staging_depth ON staging_dirs(depth);`
