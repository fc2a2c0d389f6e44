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

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const app = "fsscan_test"

func TestMain(m *testing.M) {
	cleanup := buildSelf()
	if cleanup == nil {
		os.Exit(1)
	}

	code := m.Run()
	cleanup()
	os.Exit(code)
}

func buildSelf() func() {
	cmd := exec.Command("go", "build", "-o", app)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Println(err.Error()) //nolint:forbidigo

		return nil
	}

	return func() { os.Remove(app) }
}

func runFSScan(args ...string) (stdout, stderr string, err error) {
	var out, errOut strings.Builder

	cmd := exec.CommandContext(context.Background(), "./"+app, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	err = cmd.Run()

	return out.String(), errOut.String(), err
}

// TestIngestEndToEnd runs the built binary against a small GPFS fixture
// and checks the resulting store on disk, exercising the same CLI
// surface an operator would use (§6).
func TestIngestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "20260115_server1_csfs1.list")
	storePath := filepath.Join(dir, "csfs1.db")

	lines := strings.Join([]string{
		"<0> 1 1 0 s=0 a=0 u=100 g=50 p=drwxr-xr-x ac=2026-01-15 00:00:00 -- /a",
		"<0> 2 1 0 s=0 a=0 u=100 g=50 p=drwxr-xr-x ac=2026-01-15 00:00:00 -- /a/b",
		"<0> 3 1 0 s=1024 a=4 u=100 g=50 p=-rw-r--r-- ac=2026-01-15 00:00:00 -- /a/b/f",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(inputFile, []byte(lines), 0o644))

	stdout, stderr, err := runFSScan("ingest", inputFile, "--store", storePath)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "csfs1")
	assert.Contains(t, stdout, "2 directories")

	db, dbErr := sql.Open("sqlite3", storePath)
	require.NoError(t, dbErr)
	defer db.Close()

	var fileCount int64
	row := db.QueryRow("SELECT file_count_r FROM directory_stats s " +
		"JOIN directories d ON d.dir_id = s.dir_id WHERE d.parent_id IS NULL")
	require.NoError(t, row.Scan(&fileCount))
	assert.EqualValues(t, 1, fileCount)
}

// TestIngestRejectsMissingFile checks that a nonexistent input produces a
// non-zero exit and an error on stderr, rather than a panic or silent
// success.
func TestIngestRejectsMissingFile(t *testing.T) {
	_, stderr, err := runFSScan("ingest", filepath.Join(t.TempDir(), "nope.list"),
		"--store", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.NotEmpty(t, stderr)
}
