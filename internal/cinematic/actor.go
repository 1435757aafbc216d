package cinematic

import (
	"cinetag/internal/snapshot"
	"cinetag/internal/textutil"
)

// Actor is an object participating in the cinematic.
type Actor struct {
	Name       string
	Identifier string
	Source     snapshot.Object

	// Tag paths, resolved against the tags root when written.
	AnimationGraph string
	ObjectType     string

	// ShotsActive holds one visibility flag per shot, in shot order.
	ShotsActive []bool
}

// NewActor builds an actor from a snapshot object. The name is sanitized
// before anything looks the actor up by it; an empty identifier falls back to
// the sanitized name.
func NewActor(obj snapshot.Object) *Actor {
	name := textutil.SanitizeName(obj.Name)
	identifier := textutil.SanitizeName(obj.Identifier)
	if identifier == "" {
		identifier = name
	}
	return &Actor{
		Name:           name,
		Identifier:     identifier,
		Source:         obj,
		AnimationGraph: obj.AnimationGraph,
		ObjectType:     obj.ObjectType,
	}
}

// SetShotBitMask fills ShotsActive with exactly shotCount flags read from the
// source object's per-shot visibility.
func (a *Actor) SetShotBitMask(shotCount int) {
	if shotCount < 0 {
		shotCount = 0
	}
	a.ShotsActive = make([]bool, shotCount)
	for i := range a.ShotsActive {
		a.ShotsActive[i] = a.Source.VisibleIn(i)
	}
}
