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
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	_ "github.com/mattn/go-sqlite3" //nolint:revive // driver registration
)

// Error is the package's sentinel error type.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrAlreadyExists is returned by Open when replace is false and a
	// store already exists at the target path.
	ErrAlreadyExists = Error("store: database already exists")
)

// Store wraps a single filesystem's SQLite database and the pragma
// settings recommended for a bulk, crash-discardable ingest run (§5):
// batched transactions, MEMORY journaling, exclusive locking, and
// synchronous writes turned off.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates (or replaces) the SQLite database at path and applies the
// ingest-time pragmas. If replace is false and a file already exists at
// path, ErrAlreadyExists is returned.
func Open(path string, replace bool) (*Store, error) {
	if !replace {
		if _, err := os.Stat(path); err == nil {
			return nil, ErrAlreadyExists
		}
	} else {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing existing store: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	db.SetMaxOpenConns(1) // single coordinator writer; avoids SQLITE_BUSY under EXCLUSIVE locking

	s := &Store{db: db, path: path}

	if err := s.applyPragmas(); err != nil {
		db.Close()

		return nil, err
	}

	if err := s.createSchema(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

func (s *Store) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=MEMORY",
		"PRAGMA locking_mode=EXCLUSIVE",
		"PRAGMA synchronous=OFF",
		"PRAGMA foreign_keys=ON",
	}

	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("applying %q: %w", p, err)
		}
	}

	return nil
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(schemaDDL)

	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	var result *multierror.Error

	if err := s.db.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Path returns the filesystem path of the underlying SQLite file.
func (s *Store) Path() string { return s.path }
