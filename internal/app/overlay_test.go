package app

import (
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrameStatsWindow(t *testing.T) {
	var s frameStats
	for i := 0; i < 49; i++ {
		s.add(10 * time.Millisecond)
	}
	if s.fps != 0 {
		t.Fatalf("Expected no estimate before the window closes, got %v", s.fps)
	}
	s.add(10 * time.Millisecond)
	if s.fps < 99.9 || s.fps > 100.1 {
		t.Fatalf("fps: got %v, want 100", s.fps)
	}
	if s.frameMs != 10 {
		t.Fatalf("frame ms: got %v, want 10", s.frameMs)
	}
	if s.frames != 0 || s.elapsed != 0 {
		t.Fatal("Expected window reset")
	}
}

func TestOverlayLines(t *testing.T) {
	lines := overlayLines(frameStats{fps: 120, frameMs: 8.33}, true, 2500*time.Microsecond, mgl32.Vec3{1, 2, 3})
	want := []string{
		"120 fps  8.33 ms",
		"passes 2.50 ms",
		"light markers on [Tab]",
		"camera 1.0 2.0 3.0",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %q, want %q", lines, want)
	}
}
