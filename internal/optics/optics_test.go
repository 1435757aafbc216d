package optics_test

import (
	"errors"
	"math"
	"testing"

	"cinetag/internal/optics"
)

func TestHyperfocal(t *testing.T) {
	h, err := optics.Hyperfocal(50, 2.8, 0.03)
	if err != nil {
		t.Fatalf("Hyperfocal returned error: %v", err)
	}
	if math.Abs(h-29761.904761) > 1e-3 {
		t.Fatalf("unexpected hyperfocal %v", h)
	}
}

func TestFocalDepthsScenario(t *testing.T) {
	near, far, err := optics.FocalDepths(5.0, 2.8, optics.DefaultCoC, optics.DefaultFocalLength)
	if err != nil {
		t.Fatalf("FocalDepths returned error: %v", err)
	}
	if math.Abs(near-5.0) > 0.01 {
		t.Fatalf("expected near close to focus distance, got %v", near)
	}
	if far < 5.0 || math.Abs(far-5.0) > 0.01 {
		t.Fatalf("expected far clamped at or just beyond focus distance, got %v", far)
	}
}

func TestFocalDepthsFarNeverBelowFocus(t *testing.T) {
	focalLengths := []float64{12, 24, 35, 50, 85, 135, 300}
	apertures := []float64{0.95, 1.4, 2.8, 5.6, 11, 22}
	focusDistances := []float64{0.1, 0.5, 1, 3, 10, 49, 51, 100, 1000, 1e5}
	cocs := []float64{0.01, 0.03, 0.2}
	for _, f := range focalLengths {
		for _, a := range apertures {
			for _, d := range focusDistances {
				for _, c := range cocs {
					if d == f {
						continue
					}
					_, far, err := optics.FocalDepths(d, a, c, f)
					if err != nil {
						t.Fatalf("FocalDepths(%v, %v, %v, %v) error: %v", d, a, c, f, err)
					}
					if far < d {
						t.Fatalf("far %v below focus distance %v for f=%v a=%v coc=%v", far, d, f, a, c)
					}
				}
			}
		}
	}
}

func TestFocalDepthsBeyondHyperfocalClampsFar(t *testing.T) {
	h, _ := optics.Hyperfocal(50, 8, 0.03)
	d := h*2 + 50
	_, far, err := optics.FocalDepths(d, 8, 0.03, 50)
	if err != nil {
		t.Fatalf("FocalDepths returned error: %v", err)
	}
	if far != d {
		t.Fatalf("expected far clamped to focus distance %v, got %v", d, far)
	}
}

func TestFocalDepthsDegenerateInputs(t *testing.T) {
	tests := []struct {
		name                 string
		focus, aperture, coc float64
		focal                float64
	}{
		{"focus equals focal length", 50, 2.8, 0.03, 50},
		{"zero aperture", 5, 0, 0.03, 50},
		{"negative coc", 5, 2.8, -0.03, 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := optics.FocalDepths(tc.focus, tc.aperture, tc.coc, tc.focal)
			if !errors.Is(err, optics.ErrDegenerate) {
				t.Fatalf("expected ErrDegenerate, got %v", err)
			}
		})
	}
}

func TestBlurAmountZeroAtFocus(t *testing.T) {
	for _, d := range []float64{0.5, 2, 10, 120} {
		for _, sensor := range []float64{23.5, 36} {
			coc, err := optics.BlurAmount(35, d, 2.8, d, sensor)
			if err != nil {
				t.Fatalf("BlurAmount returned error: %v", err)
			}
			if coc != 0 {
				t.Fatalf("expected zero blur at focus distance %v, got %v", d, coc)
			}
		}
	}
}

func TestBlurAmountGrowsAwayFromFocus(t *testing.T) {
	near, err := optics.BlurAmount(50, 10, 2.8, 9, 36)
	if err != nil {
		t.Fatalf("BlurAmount returned error: %v", err)
	}
	farther, err := optics.BlurAmount(50, 10, 2.8, 2, 36)
	if err != nil {
		t.Fatalf("BlurAmount returned error: %v", err)
	}
	if near <= 0 || farther <= near {
		t.Fatalf("expected blur to grow with distance from focus: %v then %v", near, farther)
	}
}

func TestBlurAmountMatchesFormula(t *testing.T) {
	f, d, a, o, sensor := 50.0, 12.0, 4.0, 3.0, 36.0
	h := f * f / (a * (sensor / optics.FullFrameDiagonal) * optics.DefaultCoC)
	want := math.Abs(f*(o-d)/(o*(d-f))) * (f / h)

	got, err := optics.BlurAmount(f, d, a, o, sensor)
	if err != nil {
		t.Fatalf("BlurAmount returned error: %v", err)
	}
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("BlurAmount = %v, want %v", got, want)
	}
}

func TestBlurAmountDegenerateInputs(t *testing.T) {
	if _, err := optics.BlurAmount(50, 50, 2.8, 10, 36); !errors.Is(err, optics.ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate for focus == focal length, got %v", err)
	}
	if _, err := optics.BlurAmount(50, 10, 2.8, 0, 36); !errors.Is(err, optics.ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate for zero object distance, got %v", err)
	}
	if _, err := optics.BlurAmount(50, 10, 2.8, 5, 0); !errors.Is(err, optics.ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate for zero sensor width, got %v", err)
	}
}
