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
	"os/user"
	"strconv"
	"sync"

	"github.com/ugorji/go/codec"
)

// Identity is a resolved uid/gid name pair, cached for the lifetime of a
// single ingest run (and optionally persisted across runs against the
// same host).
type Identity struct {
	UID      uint32
	Username string
	GECOS    string
	Resolved bool
}

type GroupIdentity struct {
	GID      uint32
	Name     string
	Resolved bool
}

// IdentityCache resolves uids/gids to host names via os/user, memoizing
// results for the run and persisting them to disk in a compact binary
// encoding so a repeat ingest against the same host skips redundant
// passwd/group lookups.
type IdentityCache struct {
	mu     sync.Mutex
	users  map[uint32]Identity
	groups map[uint32]GroupIdentity
	ch     codec.Handle
}

// NewIdentityCache returns an empty cache.
func NewIdentityCache() *IdentityCache {
	return &IdentityCache{
		users:  make(map[uint32]Identity),
		groups: make(map[uint32]GroupIdentity),
		ch:     new(codec.BincHandle),
	}
}

// User resolves uid, consulting the cache first and falling back to a
// host lookup. A failed lookup is cached as Resolved=false and is never
// treated as fatal.
func (c *IdentityCache) User(uid uint32) Identity {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.users[uid]; ok {
		return id
	}

	id := Identity{UID: uid}

	if u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10)); err == nil {
		id.Username = u.Username
		id.GECOS = u.Name
		id.Resolved = true
	}

	c.users[uid] = id

	return id
}

// Group resolves gid the same way User resolves uid.
func (c *IdentityCache) Group(gid uint32) GroupIdentity {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.groups[gid]; ok {
		return id
	}

	id := GroupIdentity{GID: gid}

	if g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10)); err == nil {
		id.Name = g.Name
		id.Resolved = true
	}

	c.groups[gid] = id

	return id
}

type persistedCache struct {
	Users  map[uint32]Identity
	Groups map[uint32]GroupIdentity
}

// SaveToFile persists the cache's current contents to path using a
// compact binary (binc) encoding, mirroring the teacher's own use of
// codec.BincHandle for on-disk caches.
func (c *IdentityCache) SaveToFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var encoded []byte

	enc := codec.NewEncoderBytes(&encoded, c.ch)
	if err := enc.Encode(persistedCache{Users: c.users, Groups: c.groups}); err != nil {
		return err
	}

	return os.WriteFile(path, encoded, 0o600)
}

// LoadFromFile replaces the cache's contents with what was persisted at
// path by a previous SaveToFile call. A missing file is not an error —
// the cache simply starts empty.
func (c *IdentityCache) LoadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	var p persistedCache

	dec := codec.NewDecoderBytes(data, c.ch)
	if err := dec.Decode(&p); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if p.Users != nil {
		c.users = p.Users
	}

	if p.Groups != nil {
		c.groups = p.Groups
	}

	return nil
}
