// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tangent

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

func TestIdentityAndZero(tst *testing.T) {
	chk.PrintTitle("identity and zero matrices")

	id := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			chk.Scalar(tst, "id entry", 0, id.Get(i, j), want)
		}
	}

	z := Zero()
	for _, v := range z.D {
		chk.Scalar(tst, "zero entry", 0, v, 0)
	}
}

func TestOuterAdd(tst *testing.T) {
	chk.PrintTitle("OuterAdd accumulates rank-1 outer products")

	m := Zero()
	m.OuterAdd(la.Vector{1, 0, 0})
	m.OuterAdd(la.Vector{0, 1, 0})

	chk.Scalar(tst, "m[0][0]", 0, m.Get(0, 0), 1)
	chk.Scalar(tst, "m[1][1]", 0, m.Get(1, 1), 1)
	chk.Scalar(tst, "m[2][2]", 0, m.Get(2, 2), 0)
	chk.Scalar(tst, "m[0][1]", 0, m.Get(0, 1), 0)
}

func TestSubAndAdd(tst *testing.T) {
	chk.PrintTitle("Add and Sub are inverse on the identity")

	id := Identity()
	diff := id.Sub(id)
	for _, v := range diff.D {
		chk.Scalar(tst, "id - id entry", 0, v, 0)
	}

	sum := Zero()
	sum.Add(id)
	sum.Add(id)
	chk.Scalar(tst, "2I[0][0]", 0, sum.Get(0, 0), 2)
}

func TestMulVecAndQuadForm(tst *testing.T) {
	chk.PrintTitle("MulVec and QuadForm against the identity and a projector")

	id := Identity()
	v := la.Vector{3, 4, 5}
	var out [3]float64
	id.MulVec(out[:], v)
	chk.Scalar(tst, "I*v x", 0, out[0], 3)
	chk.Scalar(tst, "I*v y", 0, out[1], 4)
	chk.Scalar(tst, "I*v z", 0, out[2], 5)
	chk.Scalar(tst, "v.I.v", 0, id.QuadForm(v), 3*3+4*4+5*5)

	// projector onto x: (1,0,0)(1,0,0)^T
	p := Zero()
	p.OuterAdd(la.Vector{1, 0, 0})
	p.MulVec(out[:], v)
	chk.Scalar(tst, "P*v x", 0, out[0], 3)
	chk.Scalar(tst, "P*v y", 0, out[1], 0)
	chk.Scalar(tst, "v.P.v", 0, p.QuadForm(v), 9)
}

func TestFrobenius(tst *testing.T) {
	chk.PrintTitle("Frobenius norm detects an exactly-zero matrix")

	z := Zero()
	chk.Scalar(tst, "zero frobenius", 0, z.Frobenius(), 0)

	id := Identity()
	chk.Scalar(tst, "identity frobenius", 1e-15, id.Frobenius(), 1.7320508075688772)
}

func TestProjectPointChasing(tst *testing.T) {
	chk.PrintTitle("Project with no tangent flags returns identity posproj, zero negproj")

	posproj, negproj := Project(nil, nil, nil, nil, false, false, false, false)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			chk.Scalar(tst, "posproj entry", 0, posproj.Get(i, j), want)
			chk.Scalar(tst, "negproj entry", 0, negproj.Get(i, j), 0)
		}
	}
}

func TestProjectSingleTangent(tst *testing.T) {
	chk.PrintTitle("Project with a single positive tangent builds its outer product only")

	t1 := la.Vector{0, 0, 1}
	posproj, negproj := Project(t1, nil, nil, nil, true, false, false, false)

	chk.Scalar(tst, "posproj[2][2]", 0, posproj.Get(2, 2), 1)
	chk.Scalar(tst, "posproj[0][0]", 0, posproj.Get(0, 0), 0)
	for _, v := range negproj.D {
		chk.Scalar(tst, "negproj entry (unused)", 0, v, 0)
	}
}

func TestProjectTwoTangentsBothChannels(tst *testing.T) {
	chk.PrintTitle("Project combines pos and neg tangents independently")

	t1 := la.Vector{1, 0, 0}
	n1 := la.Vector{0, 1, 0}
	posproj, negproj := Project(t1, nil, n1, nil, true, false, true, false)

	chk.Scalar(tst, "posproj[0][0]", 0, posproj.Get(0, 0), 1)
	chk.Scalar(tst, "posproj[1][1]", 0, posproj.Get(1, 1), 0)
	chk.Scalar(tst, "negproj[1][1]", 0, negproj.Get(1, 1), 1)
	chk.Scalar(tst, "negproj[0][0]", 0, negproj.Get(0, 0), 0)
}
