package cinematic

import (
	"fmt"
	"strings"

	"cinetag/internal/services"
)

// Schema selects the tag layout an export writes.
type Schema string

const (
	// SchemaLegacy writes everything into the scene tag.
	SchemaLegacy Schema = "legacy"
	// SchemaSplit writes names into the scene tag and frame and object data
	// into a companion scene data tag.
	SchemaSplit Schema = "split"
)

// Tag groups written by an export.
const (
	GroupScene     = "cinematic_scene"
	GroupSceneData = "cinematic_scene_data"
)

// ParseSchema accepts the schema names used in configuration and snapshots.
func ParseSchema(value string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "legacy", "old", "single":
		return SchemaLegacy, nil
	case "split", "new", "newer", "data":
		return SchemaSplit, nil
	default:
		return "", services.Wrap(services.ErrValidation, "schema", "parse", fmt.Sprintf("unknown engine schema %q", value), nil)
	}
}

// Split reports whether the schema uses a companion data tag.
func (s Schema) Split() bool { return s == SchemaSplit }

// FocalLengthScale converts a modeling-tool focal length to the engine's.
func (s Schema) FocalLengthScale() float64 {
	if s.Split() {
		return 0.5
	}
	return 1.3
}

func (s Schema) String() string { return string(s) }
