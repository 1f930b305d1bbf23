// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package particle holds the data model shared by every constraint
// solver: the particle state itself, the read-only constraint
// specification that parameterises a solve, and the classified
// outcome codes a solve can report.
package particle

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
)

// Kind selects which constraint family a particle is pinned to.
type Kind int

const (
	Isovalue        Kind = iota // locus where a scalar field equals a chosen value
	HeightLaplacian             // zero-crossing of the Laplacian of the height field
	Height                      // ridge/valley extremum of the height field
)

// InfoKind enumerates the per-particle info channels a FieldProbe may
// populate. Offsets into Particle.Info are looked up by InfoKind in
// ConstraintSpec.InfoIdx; presence is recorded in ConstraintSpec.ISpec.
type InfoKind int

const (
	InfoHeight InfoKind = iota
	InfoIsovalue
	InfoLaplacian
	InfoTangent1
	InfoTangent2
	InfoNegTangent1
	InfoNegTangent2
)

// FailCode classifies the outcome of a solve. Ok is the zero value so
// a freshly zeroed Particle reads as "not yet failed".
type FailCode int

const (
	Ok FailCode = iota
	IterMaxed
	HessZeroA
	HessZeroB
	ProjGradZeroA
	ProjGradZeroB
	Travel
	BadTangents
)

func (f FailCode) String() string {
	switch f {
	case Ok:
		return "ok"
	case IterMaxed:
		return "iter-maxed"
	case HessZeroA:
		return "hess-zero-a"
	case HessZeroB:
		return "hess-zero-b"
	case ProjGradZeroA:
		return "proj-grad-zero-a"
	case ProjGradZeroB:
		return "proj-grad-zero-b"
	case Travel:
		return "travel"
	case BadTangents:
		return "bad-tangents"
	}
	return "unknown"
}

// Particle is the only piece of state a solve reads and mutates. The
// 4th position component (scale) is never touched by this package.
type Particle struct {
	Pos      la.Vector // [x, y, z, s]
	Tag      int       // opaque identity, used only for diagnostics
	Info     la.Vector // per-info channel buffer, sliced via ConstraintSpec.InfoIdx
	FailCode FailCode
	History  *History // optional per-iteration diagnostic ring, nil by default
}

// New allocates a particle with an info buffer sized for infoLen
// channels (the caller knows this from its own field setup).
func New(x, y, z, s float64, tag, infoLen int) *Particle {
	return &Particle{
		Pos:  la.Vector{x, y, z, s},
		Tag:  tag,
		Info: la.NewVector(infoLen),
	}
}

// ConstraintSpec is process-wide and read-only for the duration of a
// solve; it never varies per particle.
type ConstraintSpec struct {
	Kind Kind

	Tang1Use, Tang2Use       bool // gate posproj tangents (Height only)
	NegTang1Use, NegTang2Use bool // gate negproj tangents (Height only)

	StepMax       float64 // trust-region radius, one voxel edge
	IterMax       int     // iteration budget per solver call
	ConstrEps     float64 // convergence tolerance as a fraction of StepMax
	BackStepScale float64 // (0,1) back-off applied to hack on regression

	ZeroZ      bool // force grad.z = 0 before normalizing (2D-in-3D mode)
	ScaleIsTau bool // inert: stored, but not read by the driver or any solver

	InfoIdx map[InfoKind]int  // offsets into Particle.Info
	ISpec   map[InfoKind]bool // presence flags
}

// NewConstraintSpec builds a ConstraintSpec from a named parameter
// list, the same convention used elsewhere for material parameter
// initialization: unknown names are ignored, missing required ones
// are reported once at the end.
func NewConstraintSpec(kind Kind, prms dbf.Params) (cs *ConstraintSpec, err error) {
	cs = &ConstraintSpec{
		Kind:          kind,
		BackStepScale: 0.5,
		InfoIdx:       make(map[InfoKind]int),
		ISpec:         make(map[InfoKind]bool),
	}
	var hasStepMax, hasIterMax, hasConstrEps bool
	for _, p := range prms {
		switch p.N {
		case "stepMax":
			cs.StepMax = p.V
			hasStepMax = true
		case "iterMax":
			cs.IterMax = int(p.V)
			hasIterMax = true
		case "constrEps":
			cs.ConstrEps = p.V
			hasConstrEps = true
		case "backStepScale":
			cs.BackStepScale = p.V
		case "zeroZ":
			cs.ZeroZ = p.V != 0
		case "scaleIsTau":
			cs.ScaleIsTau = p.V != 0
		case "tang1Use":
			cs.Tang1Use = p.V != 0
		case "tang2Use":
			cs.Tang2Use = p.V != 0
		case "negtang1Use":
			cs.NegTang1Use = p.V != 0
		case "negtang2Use":
			cs.NegTang2Use = p.V != 0
		}
	}
	if !hasStepMax || !hasIterMax || !hasConstrEps {
		return nil, chk.Err("invalid constraint spec: {stepMax=%v, iterMax=%v, constrEps=%v} must all be set", hasStepMax, hasIterMax, hasConstrEps)
	}
	return cs, nil
}
