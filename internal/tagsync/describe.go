package tagsync

import "cinetag/internal/tag"

// ShotInfo summarises one shots element.
type ShotInfo struct {
	Index      int
	FrameCount int64
	// Frames is the number of frame data elements actually present.
	Frames int
}

// ObjectInfo summarises one objects element. Reference and flag fields are
// rendered as text; missing fields are empty.
type ObjectInfo struct {
	Name           string
	Identifier     string
	AnimationGraph string
	ObjectType     string
	ShotsActive    string
}

// Description is a read-only view of a cinematic scene or scene data tag.
type Description struct {
	Group   string
	Name    string
	Anchor  *[3]float64
	Shots   []ShotInfo
	Objects []ObjectInfo
}

// Describe reads the cinematic blocks of t without modifying it.
func Describe(t *tag.Tag) Description {
	root := t.Root()
	d := Description{Group: t.Group(), Name: text(root, fieldName)}
	if v, ok := root.Value(fieldAnchorPosition); ok && v.Kind == tag.KindPoint {
		pos := v.Vec
		d.Anchor = &pos
	}

	if shots := child(root, blockShots); shots != nil {
		for i, el := range shots.Elements() {
			info := ShotInfo{Index: i}
			if v, ok := el.Value(fieldFrameCount); ok && v.Kind == tag.KindInt {
				info.FrameCount = v.Int
			}
			if frames := child(el, blockFrames); frames != nil {
				info.Frames = frames.Len()
			}
			d.Shots = append(d.Shots, info)
		}
	}
	if objects := child(root, blockObjects); objects != nil {
		for _, el := range objects.Elements() {
			d.Objects = append(d.Objects, ObjectInfo{
				Name:           text(el, fieldName),
				Identifier:     text(el, fieldIdentifier),
				AnimationGraph: text(el, fieldAnimationGraph),
				ObjectType:     text(el, fieldObjectType),
				ShotsActive:    text(el, fieldShotsActive),
			})
		}
	}
	return d
}

func text(el *tag.Element, name string) string {
	v, ok := el.Value(name)
	if !ok {
		return ""
	}
	return v.String()
}

// child finds a block without creating it.
func child(el *tag.Element, name string) *tag.Block {
	for _, b := range el.Blocks() {
		if b.Name() == name {
			return b
		}
	}
	return nil
}
