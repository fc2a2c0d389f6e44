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

// package owner implements the three-valued ownership lattice shared by
// directory-stats aggregation: a value is unseen, a single uid/gid, or
// multiple once two distinct values have been observed under the same
// directory.
package owner

// State distinguishes the three states of the ownership lattice.
type State uint8

const (
	Unseen State = iota
	Single
	Multiple
)

// Owner is a lattice value: Unseen, Single(Value), or Multiple.
type Owner struct {
	state State
	value uint32
}

// Nil is the zero value, equivalent to Unseen.
var Nil = Owner{state: Unseen}

// Of constructs a Single(v) owner.
func Of(v uint32) Owner {
	return Owner{state: Single, value: v}
}

// MultipleOwner is the Multiple lattice top.
var MultipleOwner = Owner{state: Multiple}

func (o Owner) State() State { return o.state }

// Value returns the single value and true if o is Single; otherwise the
// zero value and false.
func (o Owner) Value() (uint32, bool) {
	return o.value, o.state == Single
}

func (o Owner) IsUnseen() bool   { return o.state == Unseen }
func (o Owner) IsSingle() bool   { return o.state == Single }
func (o Owner) IsMultiple() bool { return o.state == Multiple }

// Join computes the lattice join of o and other:
//
//	unseen ⊔ x      = x
//	v ⊔ v           = v
//	v ⊔ w (v ≠ w)   = multiple
//	multiple ⊔ x    = multiple
func (o Owner) Join(other Owner) Owner {
	switch {
	case o.state == Multiple || other.state == Multiple:
		return MultipleOwner
	case o.state == Unseen:
		return other
	case other.state == Unseen:
		return o
	case o.value == other.value:
		return o
	default:
		return MultipleOwner
	}
}

// JoinAll folds Join over a slice of owners, starting from Unseen.
func JoinAll(owners []Owner) Owner {
	result := Nil

	for _, o := range owners {
		result = result.Join(o)
	}

	return result
}

// FromSentinel decodes the persisted-store encoding used throughout §6:
// -1 means unseen, valid is false for the NULL/multiple case (the caller
// is expected to pass valid=false when the stored column was NULL), and
// any other value is Single(v).
func FromSentinel(v int64, valid bool) Owner {
	switch {
	case !valid:
		return MultipleOwner
	case v < 0:
		return Nil
	default:
		return Of(uint32(v))
	}
}

// ToSentinel encodes o the same way: unseen as (-1, true), single(v) as
// (int64(v), true), multiple as (0, false) — the caller stores a SQL NULL
// when valid is false.
func (o Owner) ToSentinel() (value int64, valid bool) {
	switch o.state {
	case Unseen:
		return -1, true
	case Single:
		return int64(o.value), true
	default:
		return 0, false
	}
}
