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

// package histogram implements the frozen access-age and file-size bucket
// definitions and the per-owner accumulators that fill them during Pass 2a.
package histogram

const (
	// AccessBucketCount is the fixed width of an access-age vector.
	// Indexes 6-9 are reserved and never populated.
	AccessBucketCount = 10

	// SizeBucketCount is the fixed width of a file-size vector.
	SizeBucketCount = 12
)

const secondsPerDay = 24 * 60 * 60

// AgeThresholds holds the day boundaries of the five populated access-age
// buckets above index 0, in ascending order. Indexes 6-9 are reserved and
// unused; the labels are frozen even where they read oddly (index 1 is
// labelled "1 Month" but actually spans 30-180 days).
var AgeThresholds = [5]int64{30, 180, 365, 3 * 365, 5 * 365} //nolint:gochecknoglobals

// AgeBucketLabels are the frozen external labels for indexes 0-5.
var AgeBucketLabels = [6]string{ //nolint:gochecknoglobals
	"< 1 Month", "1 Month", "6 Months", "1 Year", "3 Years", "5+ Years",
}

// AccessAgeBucket returns the access-age bucket index for a file whose
// atime is ageDays days before scanDate. Negative ages (clock skew) are
// treated as zero.
func AccessAgeBucket(ageDays int64) int {
	if ageDays < 0 {
		ageDays = 0
	}

	for i, threshold := range AgeThresholds {
		if ageDays < threshold {
			return i
		}
	}

	return len(AgeThresholds)
}

// AccessAgeBucketFromSeconds derives the bucket index from raw atime and
// scanDate unix timestamps.
func AccessAgeBucketFromSeconds(atime, scanDate int64) int {
	ageDays := (scanDate - atime) / secondsPerDay

	return AccessAgeBucket(ageDays)
}

const mib = 1024 * 1024
const gib = 1024 * mib

// SizeThresholds holds the byte boundaries of the eleven populated
// file-size buckets above index 0, in ascending order (§6, frozen
// contract): 128 MiB, 512 MiB, then every power-of-two GiB step up to
// 256 GiB.
var SizeThresholds = [11]int64{ //nolint:gochecknoglobals
	128 * mib, 512 * mib, 1 * gib, 2 * gib, 4 * gib, 8 * gib,
	16 * gib, 32 * gib, 64 * gib, 128 * gib, 256 * gib,
}

// SizeBucket returns the file-size bucket index for allocatedBytes.
func SizeBucket(allocatedBytes int64) int {
	for i, threshold := range SizeThresholds {
		if allocatedBytes < threshold {
			return i
		}
	}

	return len(SizeThresholds)
}
