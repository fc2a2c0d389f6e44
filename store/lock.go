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
	"os"

	"github.com/google/uuid"
)

const lockFileSuffix = ".lock"

// RunLock is an advisory, run-token-stamped lock file that prevents two
// concurrent ingests from targeting the same store path. It is advisory
// only: a crashed run leaves the lock file behind and it must be removed
// manually before a retry; replace=true does not clear it (consistent
// with §5's "a crashed ingest is discarded and restarted").
type RunLock struct {
	path  string
	token string
}

// AcquireLock creates storePath+".lock" exclusively, stamped with a fresh
// run token. Returns an error if the lock file already exists.
func AcquireLock(storePath string) (*RunLock, error) {
	path := storePath + lockFileSuffix
	token := uuid.NewString()

	fh, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("store: another ingest may be in progress (%s): %w", path, err)
	}

	defer fh.Close()

	if _, err := fh.WriteString(token); err != nil {
		return nil, err
	}

	return &RunLock{path: path, token: token}, nil
}

// Token returns the run token stamped into the lock file.
func (l *RunLock) Token() string { return l.token }

// Release removes the lock file.
func (l *RunLock) Release() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}
