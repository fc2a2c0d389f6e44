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

package ingest

import (
	"bytes"

	"vimagination.zapto.org/byteio"

	"github.com/wtsi-hgi/fsscan/owner"
)

// writeOwner serializes an owner.Owner as a one-byte state tag followed
// by the value when Single, mirroring the compact tagged-union encoding
// called for in §9 ("a bitset for the owner-lattice state").
func writeOwner(w byteio.StickyEndianWriter, o owner.Owner) {
	w.WriteUint8(uint8(o.State()))

	if v, ok := o.Value(); ok {
		w.WriteUintX(uint64(v))
	}
}

func readOwner(r byteio.StickyEndianReader) owner.Owner {
	state := owner.State(r.ReadUint8())

	switch state {
	case owner.Single:
		return owner.Of(uint32(r.ReadUintX())) //nolint:gosec
	case owner.Multiple:
		return owner.MultipleOwner
	default:
		return owner.Nil
	}
}

// writeDelta serializes a DirStatsDelta for transmission from worker to
// coordinator.
func writeDelta(w byteio.StickyEndianWriter, d *DirStatsDelta) {
	w.WriteIntX(d.FileCount)
	w.WriteIntX(d.TotalSize)
	w.WriteIntX(d.DirCount)

	if d.MaxAtime == nil {
		w.WriteBool(false)
	} else {
		w.WriteBool(true)
		w.WriteIntX(*d.MaxAtime)
	}

	writeOwner(w, d.OwnerUID)
	writeOwner(w, d.OwnerGID)
}

func readDelta(r byteio.StickyEndianReader) *DirStatsDelta {
	d := &DirStatsDelta{}

	d.FileCount = r.ReadIntX()
	d.TotalSize = r.ReadIntX()
	d.DirCount = r.ReadIntX()

	if r.ReadBool() {
		atime := r.ReadIntX()
		d.MaxAtime = &atime
	}

	d.OwnerUID = readOwner(r)
	d.OwnerGID = readOwner(r)

	return d
}

// EncodeDirDeltas serializes a worker's per-parent-path delta map to a
// byte slice, the unit of cross-worker-boundary transmission called for
// by §9's "define them as plain value types with a compact, versioned
// serialization."
func EncodeDirDeltas(deltas map[string]*DirStatsDelta) []byte {
	var buf bytes.Buffer

	w := byteio.StickyLittleEndianWriter{Writer: &buf}

	w.WriteUintX(uint64(len(deltas)))

	for path, d := range deltas {
		w.WriteString(path)
		writeDelta(&w, d)
	}

	return buf.Bytes()
}

// DecodeDirDeltas is the inverse of EncodeDirDeltas.
func DecodeDirDeltas(data []byte) map[string]*DirStatsDelta {
	r := byteio.StickyLittleEndianReader{Reader: bytes.NewReader(data)}

	count := r.ReadUintX()
	deltas := make(map[string]*DirStatsDelta, count)

	for i := uint64(0); i < count; i++ {
		path := r.ReadString()
		deltas[path] = readDelta(&r)
	}

	return deltas
}
