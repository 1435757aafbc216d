// Package quatext writes the legacy line-oriented cinematic text format (.qua).
//
// Every section starts with a fixed header comment followed by a count line
// and that many records. Records are tab-separated; vectors are three
// space-separated components.
package quatext

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"cinetag/internal/cinematic"
	"cinetag/internal/fileutil"
)

// Version is the format version written in the VERSION section.
const Version = 5

// Section headers.
const (
	HeaderVersion = ";### VERSION ###"
	HeaderScene   = ";### SCENE ###"
	HeaderShots   = ";### SHOTS ###"
	HeaderCamera  = ";### CAMERA ###"
	HeaderAudio   = ";### AUDIO ###"
	HeaderScript  = ";### SCRIPT ###"
	HeaderEffects = ";### EFFECTS ###"
	HeaderObjects = ";### OBJECTS ###"
)

type writer struct {
	w   *bufio.Writer
	err error
}

func (w *writer) line(parts ...string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(strings.Join(parts, "\t") + "\n")
}

// Write renders scene in the text format.
func Write(out io.Writer, scene *cinematic.Scene) error {
	w := &writer{w: bufio.NewWriter(out)}

	w.line(HeaderVersion)
	w.line(strconv.Itoa(Version))

	w.line(HeaderScene)
	w.line(scene.Name)
	if a := scene.Anchor; a != nil {
		w.line(vec(a.Position), num(a.Yaw), num(a.Pitch), num(a.Roll))
	} else {
		w.line(vec(mgl64.Vec3{}), num(0), num(0), num(0))
	}

	w.line(HeaderShots)
	w.line(strconv.Itoa(len(scene.Shots)))
	for i, shot := range scene.Shots {
		w.line(fmt.Sprintf("; SHOT %d", i+1))
		w.line(HeaderCamera)
		w.line(strconv.Itoa(shot.FrameCount()))
		for _, f := range shot.Frames {
			w.line(frameRecord(f)...)
		}
		w.list(HeaderAudio, shot.Dialogue)
		w.list(HeaderScript, shot.Script)
		w.list(HeaderEffects, shot.Effects)
	}

	w.line(HeaderObjects)
	w.line(strconv.Itoa(len(scene.Actors)))
	for _, a := range scene.Actors {
		w.line(a.Name, a.Identifier, orNone(a.AnimationGraph), orNone(a.ObjectType), bits(a.ShotsActive))
	}

	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *writer) list(header string, records []string) {
	w.line(header)
	w.line(strconv.Itoa(len(records)))
	for _, r := range records {
		w.line(r)
	}
}

// WriteFile renders scene and replaces path atomically.
func WriteFile(path string, scene *cinematic.Scene) error {
	var buf bytes.Buffer
	if err := Write(&buf, scene); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func frameRecord(f cinematic.Frame) []string {
	dof := "0"
	if f.DepthOfField {
		dof = "1"
	}
	return []string{
		vec(f.Position),
		vec(f.Forward),
		vec(f.Up),
		num(f.FocalLength),
		dof,
		num(f.NearFocalPlaneDistance),
		num(f.FarFocalPlaneDistance),
		num(f.FocalDepth),
		num(f.BlurAmount),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func vec(v mgl64.Vec3) string {
	return num(v[0]) + " " + num(v[1]) + " " + num(v[2])
}

func bits(values []bool) string {
	if len(values) == 0 {
		return "-"
	}
	var b strings.Builder
	for _, v := range values {
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
