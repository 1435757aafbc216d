package geom_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"cinetag/internal/geom"
)

const tolerance = 1e-5

func assertVec(t *testing.T, label string, got, want mgl64.Vec3) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, tolerance) {
		t.Fatalf("%s: got %v want %v", label, got, want)
	}
}

func assertFloat(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Fatalf("%s: got %v want %v", label, got, want)
	}
}

func TestToEngineIdentityFacesEngineForward(t *testing.T) {
	tr := geom.ToEngine(mgl64.Ident4())

	assertVec(t, "forward", tr.Forward, mgl64.Vec3{1, 0, 0})
	assertVec(t, "left", tr.Left, mgl64.Vec3{0, 1, 0})
	assertVec(t, "up", tr.Up, mgl64.Vec3{0, 0, 1})
	assertFloat(t, "yaw", tr.Yaw, 0)
	assertFloat(t, "pitch", tr.Pitch, 0)
	assertFloat(t, "roll", tr.Roll, 0)
}

func TestToEngineRemapsTranslationToWorldUnits(t *testing.T) {
	m := mgl64.Translate3D(geom.MetersPerWorldUnit, 2*geom.MetersPerWorldUnit, -geom.MetersPerWorldUnit)
	tr := geom.ToEngine(m)

	// Modeling-tool +X (right) is engine -Y; +Y (forward) is engine +X.
	assertVec(t, "position", tr.Position, mgl64.Vec3{2, -1, -1})
}

func TestToEngineYawFollowsZRotation(t *testing.T) {
	m := mgl64.HomogRotate3DZ(mgl64.DegToRad(90))
	tr := geom.ToEngine(m)

	assertVec(t, "forward", tr.Forward, mgl64.Vec3{0, 1, 0})
	assertFloat(t, "yaw", tr.Yaw, 90)
	assertFloat(t, "pitch", tr.Pitch, 0)
}

func TestCameraToEngineIdentityLooksDown(t *testing.T) {
	tr := geom.CameraToEngine(mgl64.Ident4())

	assertVec(t, "forward", tr.Forward, mgl64.Vec3{0, 0, -1})
	assertFloat(t, "pitch", tr.Pitch, -90)
}

func TestCameraToEngineLevelCamera(t *testing.T) {
	// A camera rotated 90 degrees about X looks along the modeling-tool +Y axis.
	m := mgl64.Translate3D(0, 0, geom.MetersPerWorldUnit).Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(90)))
	tr := geom.CameraToEngine(m)

	assertVec(t, "forward", tr.Forward, mgl64.Vec3{1, 0, 0})
	assertVec(t, "up", tr.Up, mgl64.Vec3{0, 0, 1})
	assertVec(t, "position", tr.Position, mgl64.Vec3{0, 0, 1})
	assertFloat(t, "yaw", tr.Yaw, 0)
	assertFloat(t, "pitch", tr.Pitch, 0)
	assertFloat(t, "roll", tr.Roll, 0)
}

func TestCameraToEngineRoll(t *testing.T) {
	// Level camera rolled 30 degrees about its view axis.
	level := mgl64.HomogRotate3DX(mgl64.DegToRad(90))
	rolled := level.Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(30)))
	tr := geom.CameraToEngine(rolled)

	assertVec(t, "forward", tr.Forward, mgl64.Vec3{1, 0, 0})
	assertFloat(t, "abs roll", math.Abs(tr.Roll), 30)
}

func TestBasisVectorsAreUnitLength(t *testing.T) {
	matrices := []mgl64.Mat4{
		mgl64.Ident4(),
		mgl64.HomogRotate3D(0.7, mgl64.Vec3{1, 2, 3}.Normalize()),
		mgl64.Translate3D(4, -2, 9).Mul4(mgl64.HomogRotate3DY(1.1)).Mul4(mgl64.Scale3D(2, 3, 0.5)),
		geom.MatrixFromRows([16]float64{
			0.6859, -0.3240, 0.6516, 7.36,
			0.7277, 0.3054, -0.6142, -6.93,
			0.0, 0.8954, 0.4453, 4.96,
			0, 0, 0, 1,
		}),
	}
	for i, m := range matrices {
		for _, tr := range []geom.Transform{geom.ToEngine(m), geom.CameraToEngine(m)} {
			for label, v := range map[string]mgl64.Vec3{"forward": tr.Forward, "left": tr.Left, "up": tr.Up} {
				if math.Abs(v.Len()-1) > tolerance {
					t.Fatalf("matrix %d %s length %v", i, label, v.Len())
				}
			}
		}
	}
}

func TestDegenerateScaleFallsBackToAxes(t *testing.T) {
	tr := geom.ToEngine(mgl64.Scale3D(0, 0, 0))
	assertVec(t, "forward", tr.Forward, mgl64.Vec3{1, 0, 0})
	assertVec(t, "up", tr.Up, mgl64.Vec3{0, 0, 1})
}

func TestMatrixFromRowsReadsRowMajor(t *testing.T) {
	m := geom.MatrixFromRows([16]float64{
		1, 0, 0, 5,
		0, 1, 0, 6,
		0, 0, 1, 7,
		0, 0, 0, 1,
	})
	assertVec(t, "translation", m.Col(3).Vec3(), mgl64.Vec3{5, 6, 7})
}

func TestNormalizeDegrees(t *testing.T) {
	tests := map[float64]float64{0: 0, 180: 180, -180: 180, 270: -90, 540: 180, -450: -90}
	for in, want := range tests {
		assertFloat(t, "normalize", geom.NormalizeDegrees(in), want)
	}
}
