package sstvmode

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFromVISScottieDXOverridesAVTSlot(t *testing.T) {
	m := FromVIS(76)
	if m == nil {
		t.Fatal("expected Scottie DX mode for VIS 76")
	}
	if m.Family != FamilyScottieDX {
		t.Fatalf("family = %v, want FamilyScottieDX", m.Family)
	}
	if !approxEqual(m.ComponentDuration(0), 345.6e-3) {
		t.Fatalf("componentDuration = %v, want 0.3456", m.ComponentDuration(0))
	}
}

func TestFromVISPDModes(t *testing.T) {
	cases := []struct {
		vis           uint8
		width, height int
	}{
		{93, 320, 256},
		{99, 320, 256},
		{95, 640, 496},
		{98, 512, 400},
		{96, 640, 496},
		{97, 640, 496},
		{94, 800, 616},
	}
	for _, c := range cases {
		m := FromVIS(c.vis)
		if m == nil {
			t.Fatalf("vis %d: expected PD mode", c.vis)
		}
		if m.HorizontalPixels() != c.width || m.VerticalLines() != c.height {
			t.Fatalf("vis %d: got %dx%d, want %dx%d", c.vis, m.HorizontalPixels(), m.VerticalLines(), c.width, c.height)
		}
		if m.ColorLayout() != YUV420PD {
			t.Fatalf("vis %d: color layout = %v, want YUV420PD", c.vis, m.ColorLayout())
		}
		if m.LinesPerLineSync() != 2 {
			t.Fatalf("vis %d: linesPerLineSync = %d, want 2", c.vis, m.LinesPerLineSync())
		}
		if m.ComponentCount() != 4 {
			t.Fatalf("vis %d: componentCount = %d, want 4", c.vis, m.ComponentCount())
		}
	}
}

func TestFromVISMartinM1(t *testing.T) {
	m := FromVIS(44) // Martin M1: systemCode 2, h-bit and v-bit set
	if m == nil {
		t.Fatal("expected Martin mode for VIS 44")
	}
	if m.HorizontalPixels() != 320 || m.VerticalLines() != 256 {
		t.Fatalf("got %dx%d, want 320x256", m.HorizontalPixels(), m.VerticalLines())
	}
	if m.ColorLayout() != GBR {
		t.Fatalf("color layout = %v, want GBR", m.ColorLayout())
	}
	if !approxEqual(m.LineSyncDuration(), 4.862e-3) {
		t.Fatalf("lineSyncDuration = %v, want 0.004862", m.LineSyncDuration())
	}
	if !approxEqual(m.ComponentDuration(0), 146.432e-3) {
		t.Fatalf("componentDuration = %v, want 0.146432", m.ComponentDuration(0))
	}
}

func TestFromVISScottieS1LineSyncBetweenComponents(t *testing.T) {
	m := FromVIS(60) // Scottie S1
	if m == nil {
		t.Fatal("expected Scottie mode for VIS 60")
	}
	if m.LineSyncPosition() != 2 {
		t.Fatalf("lineSyncPosition = %d, want 2", m.LineSyncPosition())
	}
	if !approxEqual(m.ComponentDuration(0), 138.240e-3) {
		t.Fatalf("componentDuration = %v, want 0.138240", m.ComponentDuration(0))
	}
}

func TestFromVISWraaseSC2NotConfusedWithScottie(t *testing.T) {
	m := FromVIS(59) // SC-2 60s, same system code range as Scottie
	if m == nil {
		t.Fatal("expected Wraase SC-2 mode for VIS 59")
	}
	if m.Family != FamilyWraaseSC2 {
		t.Fatalf("family = %v, want FamilyWraaseSC2", m.Family)
	}
	if m.ColorLayout() != RGB {
		t.Fatalf("color layout = %v, want RGB", m.ColorLayout())
	}
	if m.LineSyncPosition() != 0 {
		t.Fatalf("lineSyncPosition = %d, want 0", m.LineSyncPosition())
	}
}

func TestFromVISRobotColor12(t *testing.T) {
	m := FromVIS(0)
	if m == nil {
		t.Fatal("expected Robot mode for VIS 0")
	}
	if m.ColorLayout() != YUV420 {
		t.Fatalf("color layout = %v, want YUV420", m.ColorLayout())
	}
	if m.ComponentCount() != 2 {
		t.Fatalf("componentCount = %d, want 2", m.ComponentCount())
	}
	if !approxEqual(m.ComponentDuration(0), 60e-3) || !approxEqual(m.ComponentDuration(1), 30e-3) {
		t.Fatalf("componentDurations = %v, %v", m.ComponentDuration(0), m.ComponentDuration(1))
	}
}

func TestFromVISRobotBW(t *testing.T) {
	m := FromVIS(2)
	if m == nil {
		t.Fatal("expected Robot BW mode for VIS 2")
	}
	if m.ColorLayout() != BW {
		t.Fatalf("color layout = %v, want BW", m.ColorLayout())
	}
	if m.ComponentCount() != 1 {
		t.Fatalf("componentCount = %d, want 1", m.ComponentCount())
	}
}

func TestFromVISUnimplementedAVT(t *testing.T) {
	// System code 4 (AVT): vis 64 = 0b1000000 -> systemCode = 4
	if m := FromVIS(64); m != nil {
		t.Fatalf("expected nil mode for AVT system code, got %+v", m)
	}
}

func TestFromVISUnknownRobotCode(t *testing.T) {
	// VIS 1 has systemCode 0 (Robot) but isn't one of the known Robot codes.
	if m := FromVIS(1); m != nil {
		t.Fatalf("expected nil mode for unknown robot VIS, got %+v", m)
	}
}
