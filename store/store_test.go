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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtsi-hgi/fsscan/histogram"
	"github.com/wtsi-hgi/fsscan/owner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, false)
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })

	return s
}

func TestOpenRefusesExistingWithoutReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, false)
	require.NoError(t, err)
	s.Close()

	_, err = Open(path, false)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	s2, err := Open(path, true)
	require.NoError(t, err)
	s2.Close()
}

func TestMaterializeDirectoriesAssignsSequentialIDs(t *testing.T) {
	s := openTestStore(t)

	pathToID, err := s.MaterializeDirectories([]NewDirectory{
		{ParentID: nil, Name: "a", Depth: 1, Path: "/a"},
	})
	require.NoError(t, err)
	aID := pathToID["/a"]
	require.NotZero(t, aID)

	pathToID2, err := s.MaterializeDirectories([]NewDirectory{
		{ParentID: &aID, Name: "b", Depth: 2, Path: "/a/b"},
	})
	require.NoError(t, err)
	assert.Greater(t, pathToID2["/a/b"], aID)
}

func TestSplitParentPath(t *testing.T) {
	parent, name := SplitParentPath("/a/b/f")
	assert.Equal(t, "/a/b", parent)
	assert.Equal(t, "f", name)

	parent, name = SplitParentPath("/gpfs")
	assert.Equal(t, "", parent)
	assert.Equal(t, "gpfs", name)
}

// TestScenarioS1 exercises the literal three-line GPFS scenario from
// the ingest contract: two directories and one file two levels deep,
// verifying non-recursive and inherited recursive stats.
func TestScenarioS1(t *testing.T) {
	s := openTestStore(t)

	pathToID, err := s.MaterializeDirectories([]NewDirectory{
		{ParentID: nil, Name: "a", Depth: 1, Path: "/a"},
	})
	require.NoError(t, err)
	aID := pathToID["/a"]

	pathToID2, err := s.MaterializeDirectories([]NewDirectory{
		{ParentID: &aID, Name: "b", Depth: 2, Path: "/a/b"},
	})
	require.NoError(t, err)
	bID := pathToID2["/a/b"]

	require.NoError(t, s.FlushNRUpdates([]NRDelta{
		{DirID: bID, FileCount: 1, TotalSize: 4096, DirCount: 0, OwnerUID: owner.Of(100), OwnerGID: owner.Nil},
	}))

	maxDepth, err := s.MaxDepth()
	require.NoError(t, err)
	require.Equal(t, 2, maxDepth)

	for depth := maxDepth; depth >= 1; depth-- {
		require.NoError(t, s.AggregateRecursiveStatsAtDepth(depth))
	}

	var fileCountNR, fileCountR, totalSizeR, ownerUID int64

	row := s.db.QueryRow("SELECT file_count_nr, file_count_r, total_size_r, owner_uid FROM directory_stats WHERE dir_id = ?", bID)
	require.NoError(t, row.Scan(&fileCountNR, &fileCountR, &totalSizeR, &ownerUID))
	assert.EqualValues(t, 1, fileCountNR)
	assert.EqualValues(t, 1, fileCountR)
	assert.EqualValues(t, 4096, totalSizeR)
	assert.EqualValues(t, 100, ownerUID)

	row = s.db.QueryRow("SELECT file_count_nr, file_count_r, owner_uid FROM directory_stats WHERE dir_id = ?", aID)
	var aFileCountNR, aFileCountR, aOwnerUID int64
	require.NoError(t, row.Scan(&aFileCountNR, &aFileCountR, &aOwnerUID))
	assert.EqualValues(t, 0, aFileCountNR)
	assert.EqualValues(t, 1, aFileCountR)
	assert.EqualValues(t, 100, aOwnerUID, "owner is inherited from the only child")
}

// TestScenarioS2 checks that two files with different uids under the
// same directory mark that directory Multiple.
func TestScenarioS2(t *testing.T) {
	s := openTestStore(t)

	pathToID, err := s.MaterializeDirectories([]NewDirectory{
		{ParentID: nil, Name: "a", Depth: 1, Path: "/a"},
	})
	require.NoError(t, err)
	aID := pathToID["/a"]

	require.NoError(t, s.FlushNRUpdates([]NRDelta{
		{DirID: aID, FileCount: 1, TotalSize: 10, OwnerUID: owner.Of(1), OwnerGID: owner.Nil},
	}))
	require.NoError(t, s.FlushNRUpdates([]NRDelta{
		{DirID: aID, FileCount: 1, TotalSize: 10, OwnerUID: owner.Of(2), OwnerGID: owner.Nil},
	}))

	var ownerUID *int64

	row := s.db.QueryRow("SELECT owner_uid FROM directory_stats WHERE dir_id = ?", aID)
	require.NoError(t, row.Scan(&ownerUID))
	assert.Nil(t, ownerUID, "conflicting uids must leave owner_uid NULL (Multiple)")
}

func TestFlushHistograms(t *testing.T) {
	s := openTestStore(t)

	access := map[uint32]*histogram.Vector{100: {}}
	access[100].Count[0] = 2
	access[100].TotalSize[0] = 2048

	require.NoError(t, s.FlushHistograms(access, nil))

	var count, size int64
	row := s.db.QueryRow("SELECT file_count, total_size FROM access_histogram WHERE owner_uid = 100 AND bucket_index = 0")
	require.NoError(t, row.Scan(&count, &size))
	assert.EqualValues(t, 2, count)
	assert.EqualValues(t, 2048, size)
}

func TestSummaryAndMetadata(t *testing.T) {
	s := openTestStore(t)

	pathToID, err := s.MaterializeDirectories([]NewDirectory{
		{ParentID: nil, Name: "a", Depth: 1, Path: "/a"},
	})
	require.NoError(t, err)
	aID := pathToID["/a"]

	require.NoError(t, s.FlushNRUpdates([]NRDelta{
		{DirID: aID, FileCount: 3, TotalSize: 300, OwnerUID: owner.Of(42), OwnerGID: owner.Of(7)},
	}))

	require.NoError(t, s.RecomputeOwnerSummary())
	require.NoError(t, s.RecomputeGroupSummary())

	var totalFiles, totalSize int64
	row := s.db.QueryRow("SELECT total_files, total_size FROM owner_summary WHERE owner_uid = 42")
	require.NoError(t, row.Scan(&totalFiles, &totalSize))
	assert.EqualValues(t, 3, totalFiles)
	assert.EqualValues(t, 300, totalSize)

	uids, err := s.DistinctUIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint32{42}, uids)

	require.NoError(t, s.UpsertUserInfo(42, "alice", "Alice Example"))

	require.NoError(t, s.InsertScanMetadata(ScanMetadata{
		SourceFile:       "20260115_server1_csfs1.list",
		ImportTimestamp:  time.Unix(1700000000, 0),
		Filesystem:       "csfs1",
		TotalDirectories: 1,
		TotalFiles:       3,
		TotalSize:        300,
	}))

	var fs string
	row = s.db.QueryRow("SELECT filesystem FROM scan_metadata WHERE source_file = ?", "20260115_server1_csfs1.list")
	require.NoError(t, row.Scan(&fs))
	assert.Equal(t, "csfs1", fs)
}

func TestRunLockPreventsConcurrentAcquire(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "fs.db")

	lock, err := AcquireLock(storePath)
	require.NoError(t, err)
	assert.NotEmpty(t, lock.Token())

	_, err = AcquireLock(storePath)
	assert.Error(t, err)

	require.NoError(t, lock.Release())

	lock2, err := AcquireLock(storePath)
	require.NoError(t, err)
	require.NoError(t, lock2.Release())
}
