package copiclib

import (
	"errors"
	"testing"
)

func checkMonitors(t *testing.T, got []*Monitor, want []Monitor) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d monitors, got %d", len(want), len(got))
	}

	for i, m := range got {
		w := want[i]
		if m.X != w.X || m.Y != w.Y || m.Width != w.Width || m.Height != w.Height {
			t.Fatalf("monitor %d: expected %dx%d+%d+%d, got %dx%d+%d+%d",
				i, w.Width, w.Height, w.X, w.Y, m.Width, m.Height, m.X, m.Y)
		}
	}
}

func TestParseXrandrTwoMonitors(t *testing.T) {
	out := "HDMI-1 connected 1920x1080+0+0\n" +
		"HDMI-2 connected 1920x1080+1920+0\n"

	monitors, err := ParseXrandr(out)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	checkMonitors(t, monitors, []Monitor{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 1920, Height: 1080},
	})
}

func TestParseXrandrRealOutput(t *testing.T) {
	out := `Screen 0: minimum 320 x 200, current 3200 x 1080, maximum 16384 x 16384
eDP-1 connected primary 1280x800+1920+100 (normal left inverted right x axis y axis) 286mm x 179mm
   1280x800      60.00*+  40.00
   1024x768      60.00
HDMI-1 connected 1920x1080+0+0 (normal left inverted right x axis y axis) 531mm x 299mm
   1920x1080     60.00*+  50.00
DP-1 disconnected (normal left inverted right x axis y axis)
DP-2 disconnected (normal left inverted right x axis y axis)
`

	monitors, err := ParseXrandr(out)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	checkMonitors(t, monitors, []Monitor{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 100, Width: 1280, Height: 800},
	})
}

func TestParseXrandrSortsByXThenY(t *testing.T) {
	out := "DP-3 connected 1920x1080+1920+0\n" +
		"DP-1 connected 1920x1080+0+1080\n" +
		"DP-2 connected 1920x1080+0+0\n"

	monitors, err := ParseXrandr(out)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	checkMonitors(t, monitors, []Monitor{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 0, Y: 1080, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 1920, Height: 1080},
	})
}

func TestParseXrandrSkipsDisabledOutputs(t *testing.T) {
	// Connected but disabled outputs report no geometry
	out := "HDMI-1 connected (normal left inverted right x axis y axis)\n" +
		"HDMI-2 connected 1920x1080+0+0\n"

	monitors, err := ParseXrandr(out)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	checkMonitors(t, monitors, []Monitor{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
	})
}

func TestParseXrandrNoActiveMonitors(t *testing.T) {
	outputs := []string{
		"",
		"\n\n",
		"DP-1 disconnected (normal left inverted right x axis y axis)\n",
		"Screen 0: minimum 320 x 200, current 3840 x 1080, maximum 16384 x 16384\n",
		"HDMI-1 connected (normal left inverted right x axis y axis)\n",
	}

	for _, out := range outputs {
		_, err := ParseXrandr(out)
		if !errors.Is(err, ErrNoMonitors) {
			t.Fatalf("expected ErrNoMonitors for %q, got %v", out, err)
		}
	}
}

func TestParseXrandrMalformedGeometry(t *testing.T) {
	// Enough digits to overflow any integer parse
	out := "HDMI-1 connected 99999999999999999999x1080+0+0\n"

	_, err := ParseXrandr(out)
	if err == nil {
		t.Fatal("expected an error for unparseable geometry")
	}
}
