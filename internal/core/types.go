package core

import "brepcore/pkg/brep"

type (
	ObjectKind       = brep.ObjectKind
	Stores           = brep.Stores
	Snapshot         = brep.Snapshot
	StructuralError  = brep.StructuralError
	StructuralIssues = brep.StructuralIssues
)

const (
	KindPoint   = brep.KindPoint
	KindCurve   = brep.KindCurve
	KindSurface = brep.KindSurface
	KindVertex  = brep.KindVertex
	KindEdge    = brep.KindEdge
	KindCycle   = brep.KindCycle
	KindFace    = brep.KindFace
)

// ErrUniqueness mirrors the validation sentinel for callers that only import
// the core package.
var ErrUniqueness = brep.ErrUniqueness
