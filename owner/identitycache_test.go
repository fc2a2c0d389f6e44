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

package owner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityCacheResolvesAndMemoizes(t *testing.T) {
	c := NewIdentityCache()

	uid := uint32(os.Getuid())

	id := c.User(uid)
	assert.Equal(t, uid, id.UID)

	again := c.User(uid)
	assert.Equal(t, id, again)
}

func TestIdentityCacheSaveLoadRoundTrip(t *testing.T) {
	c := NewIdentityCache()
	c.users[1000] = Identity{UID: 1000, Username: "alice", Resolved: true}
	c.groups[2000] = GroupIdentity{GID: 2000, Name: "staff", Resolved: true}

	path := filepath.Join(t.TempDir(), "identity.cache")
	require.NoError(t, c.SaveToFile(path))

	loaded := NewIdentityCache()
	require.NoError(t, loaded.LoadFromFile(path))

	assert.Equal(t, c.users[1000], loaded.users[1000])
	assert.Equal(t, c.groups[2000], loaded.groups[2000])
}

func TestIdentityCacheLoadMissingFileIsNotError(t *testing.T) {
	c := NewIdentityCache()
	err := c.LoadFromFile(filepath.Join(t.TempDir(), "missing.cache"))
	assert.NoError(t, err)
}

func TestSortedKeys(t *testing.T) {
	m := map[uint32]bool{30: true, 10: true, 20: true}
	assert.Equal(t, []uint32{10, 20, 30}, SortedKeys(m))
}
