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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStorePathPrecedence(t *testing.T) {
	t.Setenv(EnvStorePath, "")
	t.Setenv(EnvDataDir, "")

	assert.Equal(t, "/explicit/path.db", ResolveStorePath("/explicit/path.db", "csfs1"))

	t.Setenv(EnvStorePath, "/env/store.db")
	assert.Equal(t, "/env/store.db", ResolveStorePath("", "csfs1"),
		"FS_SCAN_DB overrides FS_SCAN_DATA_DIR when no explicit path is given")

	t.Setenv(EnvStorePath, "")
	t.Setenv(EnvDataDir, "/data")
	assert.Equal(t, "/data/csfs1.db", ResolveStorePath("", "csfs1"))

	t.Setenv(EnvDataDir, "")
	assert.Equal(t, "csfs1.db", ResolveStorePath("", "csfs1"), "falls back to a bare filesystem-named file")
}

func TestValidateMountUnknownPathIsFalse(t *testing.T) {
	ok, err := ValidateMount("/this/path/is/almost-certainly/not/a/mountpoint")
	assert.NoError(t, err)
	assert.False(t, ok)
}
