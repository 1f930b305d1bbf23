// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tangent builds the projection matrices a height-constraint
// solve uses to gate motion onto selected tangent subspaces, and
// provides the small flat-matrix helper (Mat3) the rest of the core
// shares for 3x3 symmetric tensors.
package tangent

import (
	"github.com/cpmech/gosl/la"
)

// Mat3 is a row-major 3x3 matrix stored flat, the same convention used
// for stress/strain tensors in hot assembly loops, over [3][3]float64.
type Mat3 struct {
	D [9]float64
}

// Identity returns the 3x3 identity matrix.
func Identity() *Mat3 {
	m := &Mat3{}
	m.D[0], m.D[4], m.D[8] = 1, 1, 1
	return m
}

// Zero returns the 3x3 zero matrix.
func Zero() *Mat3 {
	return &Mat3{}
}

// Get returns entry (i,j), 0-indexed.
func (m *Mat3) Get(i, j int) float64 {
	return m.D[3*i+j]
}

// Set assigns entry (i,j), 0-indexed.
func (m *Mat3) Set(i, j int, v float64) {
	m.D[3*i+j] = v
}

// OuterAdd accumulates the rank-1 outer product v vᵀ into m. v must
// have length 3.
func (m *Mat3) OuterAdd(v la.Vector) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.D[3*i+j] += v[i] * v[j]
		}
	}
}

// Add computes m += other.
func (m *Mat3) Add(other *Mat3) {
	for i := range m.D {
		m.D[i] += other.D[i]
	}
}

// Sub returns m - other as a new matrix.
func (m *Mat3) Sub(other *Mat3) *Mat3 {
	out := &Mat3{}
	for i := range m.D {
		out.D[i] = m.D[i] - other.D[i]
	}
	return out
}

// MulVec computes out = m·v. out and v must have length 3 and may not alias.
func (m *Mat3) MulVec(out, v la.Vector) {
	for i := 0; i < 3; i++ {
		out[i] = m.D[3*i]*v[0] + m.D[3*i+1]*v[1] + m.D[3*i+2]*v[2]
	}
}

// QuadForm computes vᵀ·m·v.
func (m *Mat3) QuadForm(v la.Vector) float64 {
	var tmp [3]float64
	m.MulVec(tmp[:], v)
	return v[0]*tmp[0] + v[1]*tmp[1] + v[2]*tmp[2]
}

// Frobenius returns the Frobenius norm of m, used to detect an
// exactly-zero Hessian.
func (m *Mat3) Frobenius() float64 {
	var s float64
	for _, v := range m.D {
		s += v * v
	}
	if s == 0 {
		return 0
	}
	return la.VecNorm(la.Vector(m.D[:]))
}

// Project assembles posproj and negproj from the particle's current
// tangent vectors, per the four use flags. Each enabled tangent
// contributes its rank-1 outer product to the corresponding matrix.
// If all four flags are false (point-chasing mode), posproj is the
// identity and negproj stays zero — every direction is permitted.
// Tangent vectors are assumed already unit-length and, when more than
// one is used together, mutually orthogonal; no orthonormalization is
// performed here.
func Project(tang1, tang2, negtang1, negtang2 la.Vector, useTang1, useTang2, useNegtang1, useNegtang2 bool) (posproj, negproj *Mat3) {
	posproj, negproj = Zero(), Zero()
	if useTang1 {
		posproj.OuterAdd(tang1)
	}
	if useTang2 {
		posproj.OuterAdd(tang2)
	}
	if useNegtang1 {
		negproj.OuterAdd(negtang1)
	}
	if useNegtang2 {
		negproj.OuterAdd(negtang2)
	}
	if !useTang1 && !useTang2 && !useNegtang1 && !useNegtang2 {
		posproj = Identity()
	}
	return
}
