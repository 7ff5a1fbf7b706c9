package render

import (
	"testing"

	"github.com/taigrr/spincube/pkg/math3d"
)

func TestShadeFullBrightness(t *testing.T) {
	light := PointLight{Position: math3d.V3(0, 0, 5)}
	base := RGB(0, 255, 0)

	// Normal pointing straight at the light: diffuse 1, full intensity.
	got := light.Shade(math3d.V3(0, 0, 1), math3d.Zero3(), base)
	if got != base {
		t.Errorf("Shade facing light = %v, want %v", got, base)
	}
}

func TestShadeAmbientFloor(t *testing.T) {
	light := PointLight{Position: math3d.V3(0, 0, 5)}
	base := RGB(200, 100, 50)
	want := RGB(20, 10, 5) // base * 0.1

	tests := []struct {
		name   string
		normal math3d.Vec3
		pos    math3d.Vec3
	}{
		{"back-facing normal", math3d.V3(0, 0, -1), math3d.Zero3()},
		{"perpendicular normal", math3d.V3(1, 0, 0), math3d.Zero3()},
		{"light coincident with surface", math3d.V3(0, 1, 0), math3d.V3(0, 0, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := light.Shade(tc.normal, tc.pos, base); got != want {
				t.Errorf("Shade = %v, want ambient-only %v", got, want)
			}
		})
	}
}

func TestShadeNormalizesInput(t *testing.T) {
	light := PointLight{Position: math3d.V3(2, 3, 5)}
	base := RGB(180, 90, 240)
	n := math3d.V3(0.3, -0.2, 0.9)
	pos := math3d.V3(0.5, 0.5, 1)

	unit := light.Shade(n.Normalize(), pos, base)
	scaled := light.Shade(n.Scale(7.5), pos, base)
	if unit != scaled {
		t.Errorf("Shade depends on normal length: %v vs %v", unit, scaled)
	}
}

func TestShadeZeroNormalFallsBack(t *testing.T) {
	light := PointLight{Position: math3d.V3(0, 0, 5)}
	base := RGB(100, 100, 100)

	// A degenerate normal shades as if facing the viewer.
	got := light.Shade(math3d.Zero3(), math3d.Zero3(), base)
	want := light.Shade(math3d.V3(0, 0, 1), math3d.Zero3(), base)
	if got != want {
		t.Errorf("Shade(zero normal) = %v, want +Z fallback %v", got, want)
	}
}

func TestShadePure(t *testing.T) {
	light := PointLight{Position: math3d.V3(1, 2, 3)}
	n := math3d.V3(0.1, 0.7, 0.7)
	pos := math3d.V3(-0.3, 0.4, 0.9)
	base := RGBA(10, 200, 30, 128)

	first := light.Shade(n, pos, base)
	second := light.Shade(n, pos, base)
	if first != second {
		t.Errorf("Shade is not deterministic: %v vs %v", first, second)
	}
	if first.A != base.A {
		t.Errorf("Shade changed alpha: %d, want %d", first.A, base.A)
	}
}
