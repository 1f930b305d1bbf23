// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// finite3 reports whether the first 3 components of v are all finite.
// A non-finite coordinate after a proposed move is a fatal solver error.
func finite3(v la.Vector) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

// normalize3 writes the unit vector of v[:3] into dir and returns its
// pre-normalization length. If zeroZ is set, v[2] is forced to zero
// first. On a zero length dir is left holding that (masked) copy of
// v[:3], not a unit vector.
func normalize3(dir, v la.Vector, zeroZ bool) (length float64) {
	dir[0], dir[1] = v[0], v[1]
	if zeroZ {
		dir[2] = 0
	} else {
		dir[2] = v[2]
	}
	length = la.VecNorm(dir)
	if length == 0 {
		return 0
	}
	dir[0] /= length
	dir[1] /= length
	dir[2] /= length
	return length
}

// snapshotInfo preserves the probe-consistency invariant: an info
// buffer copied out on accept and copied back in on reject, so a
// rejected move never leaves pt.Info describing a position other than
// pt.Pos.
func snapshotInfo(dst, src la.Vector) {
	copy(dst, src)
}
