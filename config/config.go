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

// package config resolves the data-directory and store-path environment
// variables of §6, with explicit-flag > env > default precedence, and
// optionally loads a .env file before flags are parsed.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/moby/sys/mountinfo"
)

const (
	// EnvDataDir names the environment variable giving the default
	// directory under which per-filesystem stores live.
	EnvDataDir = "FS_SCAN_DATA_DIR"
	// EnvStorePath names the environment variable that gives the store
	// path outright, overriding EnvDataDir; an explicit path still wins.
	EnvStorePath = "FS_SCAN_DB"
)

// LoadDotEnv loads a .env file from the working directory if one exists,
// without overriding any variable already present in the process
// environment. A missing .env file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// ResolveStorePath determines the SQLite store path for an ingest of the
// given filesystem, honouring explicit-flag > FS_SCAN_DB > FS_SCAN_DATA_DIR
// precedence (§6).
func ResolveStorePath(explicit, filesystem string) string {
	if explicit != "" {
		return explicit
	}

	if p := os.Getenv(EnvStorePath); p != "" {
		return p
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		return filepath.Join(dir, filesystem+".db")
	}

	return filesystem + ".db"
}

// ValidateMount reports whether mountPoint corresponds to a real mount
// visible in /proc/self/mountinfo, as a best-effort sanity check rather
// than a hard precondition; the ingest command does not call it. Hosts without
// /proc/self/mountinfo (e.g. non-Linux CI) report ok=true so the caller
// never blocks on an unavailable check, mirroring the teacher's own
// basedirs/history.go getMountPoints fallback posture.
func ValidateMount(mountPoint string) (ok bool, err error) {
	mounts, err := mountinfo.GetMounts(nil)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}

		return false, err
	}

	want := strings.TrimSuffix(mountPoint, "/")

	for _, m := range mounts {
		if strings.TrimSuffix(m.Mountpoint, "/") == want {
			return true, nil
		}
	}

	return false, nil
}
