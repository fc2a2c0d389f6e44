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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestJoin(t *testing.T) {
	Convey("Unseen joined with anything yields the other value", t, func() {
		So(Nil.Join(Of(5)), ShouldResemble, Of(5))
		So(Of(5).Join(Nil), ShouldResemble, Of(5))
		So(Nil.Join(Nil), ShouldResemble, Nil)
	})

	Convey("Identical singles join to themselves", t, func() {
		So(Of(7).Join(Of(7)), ShouldResemble, Of(7))
	})

	Convey("Distinct singles join to Multiple", t, func() {
		So(Of(7).Join(Of(8)).IsMultiple(), ShouldBeTrue)
	})

	Convey("Multiple absorbs everything", t, func() {
		So(MultipleOwner.Join(Of(1)).IsMultiple(), ShouldBeTrue)
		So(Of(1).Join(MultipleOwner).IsMultiple(), ShouldBeTrue)
		So(MultipleOwner.Join(Nil).IsMultiple(), ShouldBeTrue)
	})

	Convey("JoinAll folds across a slice", t, func() {
		So(JoinAll([]Owner{Of(1), Of(1), Of(1)}), ShouldResemble, Of(1))
		So(JoinAll([]Owner{Of(1), Of(2)}).IsMultiple(), ShouldBeTrue)
		So(JoinAll(nil), ShouldResemble, Nil)
	})
}

func TestSentinelRoundTrip(t *testing.T) {
	Convey("Unseen encodes as (-1, true)", t, func() {
		v, valid := Nil.ToSentinel()
		So(v, ShouldEqual, -1)
		So(valid, ShouldBeTrue)
		So(FromSentinel(v, valid), ShouldResemble, Nil)
	})

	Convey("Single encodes as (value, true)", t, func() {
		v, valid := Of(42).ToSentinel()
		So(v, ShouldEqual, 42)
		So(valid, ShouldBeTrue)
		So(FromSentinel(v, valid), ShouldResemble, Of(42))
	})

	Convey("Multiple encodes as NULL", t, func() {
		_, valid := MultipleOwner.ToSentinel()
		So(valid, ShouldBeFalse)
		So(FromSentinel(0, false).IsMultiple(), ShouldBeTrue)
	})
}
