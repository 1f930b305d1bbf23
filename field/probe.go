// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field declares the external field-probing contract the
// constraint solvers depend on. The probing backend itself — value,
// gradient and Hessian sampling of the underlying scalar field at an
// arbitrary 3-D position — is out of scope; only the interface lives
// here.
package field

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/critic/particle"
)

// Probe populates a particle's info vector and answers queries
// against it. It is stateless from the solvers' perspective: all
// state it needs to return Scalar/gradient/Hessian for a given
// position must already have been installed by the most recent At
// call on that particle.
type Probe interface {
	// At samples the field at pos (the particle's first three
	// position components) and writes every configured info channel
	// into pt.Info. A probe failure is fatal to the calling solve.
	At(pt *particle.Particle, pos la.Vector) error

	// Scalar returns the value of info channel kind at the most
	// recent probe. If grad is non-nil its 3 components are filled
	// with the spatial gradient of that channel; if hess is non-nil
	// its 9 components are filled with the symmetric Hessian in
	// row-major order.
	Scalar(pt *particle.Particle, kind particle.InfoKind, grad, hess la.Vector) float64
}
