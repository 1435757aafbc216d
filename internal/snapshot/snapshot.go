package snapshot

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"cinetag/internal/geom"
	"cinetag/internal/services"
)

// Camera defaults applied to fields missing from the snapshot.
const (
	DefaultLens          = 50.0
	DefaultSensorWidth   = 36.0
	DefaultClipStart     = 0.1
	DefaultClipEnd       = 100.0
	DefaultFStop         = 2.8
	DefaultFocusDistance = 10.0
)

// Snapshot is one scene as dumped by the add-on.
type Snapshot struct {
	// Asset is the asset directory relative to the tags root, e.g.
	// "objects/cinematics/intro".
	Asset string `yaml:"asset"`
	// Engine optionally overrides the configured engine schema.
	Engine  string   `yaml:"engine,omitempty"`
	Anchor  *Object  `yaml:"anchor,omitempty"`
	Shots   []Shot   `yaml:"shots"`
	Objects []Object `yaml:"objects"`
}

// Shot holds the camera samples of one shot in frame order.
type Shot struct {
	Frames []Camera `yaml:"frames"`
}

// Camera is one sampled camera state.
type Camera struct {
	Matrix      Matrix  `yaml:"matrix"`
	Lens        float64 `yaml:"lens"`
	SensorWidth float64 `yaml:"sensor_width"`
	ClipStart   float64 `yaml:"clip_start"`
	ClipEnd     float64 `yaml:"clip_end"`
	DOF         DOF     `yaml:"dof"`
}

// DOF mirrors the camera's depth-of-field settings.
type DOF struct {
	Enabled       bool    `yaml:"use_dof"`
	FocusDistance float64 `yaml:"focus_distance"`
	FStop         float64 `yaml:"aperture_fstop"`
}

// Object is an exportable scene object.
type Object struct {
	Name           string `yaml:"name"`
	Identifier     string `yaml:"identifier,omitempty"`
	Matrix         Matrix `yaml:"matrix,omitempty"`
	AnimationGraph string `yaml:"animation_graph,omitempty"`
	ObjectType     string `yaml:"object_type,omitempty"`

	// ShotVisibility maps a shot index to the object's visibility in that
	// shot. Shots without an entry count as visible.
	ShotVisibility map[int]bool `yaml:"shot_visibility,omitempty"`
}

// Matrix is a row-major 4x4 matrix.
type Matrix []float64

// Mat4 converts the matrix; an empty matrix is the identity.
func (m Matrix) Mat4() mgl64.Mat4 {
	if len(m) == 0 {
		return mgl64.Ident4()
	}
	var rows [16]float64
	copy(rows[:], m)
	return geom.MatrixFromRows(rows)
}

// VisibleIn reports whether the object is visible in shot index i.
func (o Object) VisibleIn(i int) bool {
	visible, ok := o.ShotVisibility[i]
	return !ok || visible
}

// Load reads and validates a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return snap, nil
}

// Parse decodes snapshot YAML, applies camera defaults, and validates the
// result.
func Parse(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, services.Wrap(services.ErrValidation, "snapshot", "decode", "invalid yaml", err)
	}
	snap.applyDefaults()
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Snapshot) applyDefaults() {
	s.Asset = strings.Trim(strings.ReplaceAll(strings.TrimSpace(s.Asset), "\\", "/"), "/")
	s.Engine = strings.ToLower(strings.TrimSpace(s.Engine))
	for i := range s.Shots {
		for j := range s.Shots[i].Frames {
			s.Shots[i].Frames[j].applyDefaults()
		}
	}
	for i := range s.Objects {
		s.Objects[i].Name = strings.TrimSpace(s.Objects[i].Name)
	}
}

func (c *Camera) applyDefaults() {
	if c.Lens == 0 {
		c.Lens = DefaultLens
	}
	if c.SensorWidth == 0 {
		c.SensorWidth = DefaultSensorWidth
	}
	if c.ClipStart == 0 {
		c.ClipStart = DefaultClipStart
	}
	if c.ClipEnd == 0 {
		c.ClipEnd = DefaultClipEnd
	}
	if c.DOF.FStop == 0 {
		c.DOF.FStop = DefaultFStop
	}
	if c.DOF.FocusDistance == 0 {
		c.DOF.FocusDistance = DefaultFocusDistance
	}
}

// Validate checks the structural requirements an export relies on.
func (s *Snapshot) Validate() error {
	if s.Asset == "" {
		return services.Wrap(services.ErrValidation, "snapshot", "validate", "asset path is required", nil)
	}
	if path.Base(s.Asset) == "." || strings.Contains(s.Asset, "..") {
		return services.Wrap(services.ErrValidation, "snapshot", "validate", fmt.Sprintf("asset path %q is not inside the tags root", s.Asset), nil)
	}
	if s.Anchor != nil {
		if err := validateMatrix("anchor", s.Anchor.Matrix); err != nil {
			return err
		}
	}
	for i, shot := range s.Shots {
		for j, cam := range shot.Frames {
			label := fmt.Sprintf("shot %d frame %d", i, j)
			if len(cam.Matrix) != 16 {
				return services.Wrap(services.ErrValidation, "snapshot", "validate", fmt.Sprintf("%s: camera matrix needs 16 values, got %d", label, len(cam.Matrix)), nil)
			}
			if cam.Lens < 0 || cam.SensorWidth < 0 || cam.DOF.FStop < 0 {
				return services.Wrap(services.ErrValidation, "snapshot", "validate", label+": lens, sensor width and f-stop must be positive", nil)
			}
			if cam.ClipEnd <= cam.ClipStart {
				return services.Wrap(services.ErrValidation, "snapshot", "validate", fmt.Sprintf("%s: clip end %v must exceed clip start %v", label, cam.ClipEnd, cam.ClipStart), nil)
			}
		}
	}
	for i, obj := range s.Objects {
		if obj.Name == "" {
			return services.Wrap(services.ErrValidation, "snapshot", "validate", fmt.Sprintf("object %d has no name", i), nil)
		}
		if err := validateMatrix("object "+obj.Name, obj.Matrix); err != nil {
			return err
		}
		for shot := range obj.ShotVisibility {
			if shot < 0 || shot >= len(s.Shots) {
				return services.Wrap(services.ErrValidation, "snapshot", "validate", fmt.Sprintf("object %s: visibility for shot %d, scene has %d shots", obj.Name, shot, len(s.Shots)), nil)
			}
		}
	}
	return nil
}

func validateMatrix(label string, m Matrix) error {
	if len(m) != 0 && len(m) != 16 {
		return services.Wrap(services.ErrValidation, "snapshot", "validate", fmt.Sprintf("%s: matrix needs 16 values, got %d", label, len(m)), nil)
	}
	return nil
}

// SceneName returns the engine scene name for the asset, <base>_000.
func (s *Snapshot) SceneName() string {
	return path.Base(s.Asset) + "_000"
}

// FrameCount returns the total number of camera samples across shots.
func (s *Snapshot) FrameCount() int {
	total := 0
	for _, shot := range s.Shots {
		total += len(shot.Frames)
	}
	return total
}
