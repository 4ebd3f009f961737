package copiclib

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"sort"
	"strings"
	"syscall"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

type sessionType int
type environment int

const (
	xType sessionType = iota
	// wayland sessionType = iota
)

const (
	gnome   environment = iota
	i3      environment = iota
	unknown environment = iota
)

type session struct {
	display string
	sType   sessionType
	env     environment
}

// Monitor is one active output: its resolution and its offset into the
// virtual desktop. Wallpaper is filled in by the commands once a source
// image has been chosen for it.
type Monitor struct {
	X         int
	Y         int
	Width     int
	Height    int
	Wallpaper AbsolutePath
	session   *session
}

var sysProcAttr = &syscall.SysProcAttr{}

// Assumes a display ID of the form ":[0-9]+"
// True if it's definitely a local X session
func testXSession(session string) bool {
	_, err := os.Stat("/tmp/.X11-unix/X" + strings.TrimLeft(session, ":"))
	return err == nil
}

var displayRE = regexp.MustCompile(`^:[0-9]+`)

// Trims individual screens out of an X11 DISPLAY variable
func trimDisplay(display string) string {
	trimmed := displayRE.FindString(display)
	if trimmed != "" {
		return trimmed
	}
	return display
}

func listSessionIDs() ([]string, error) {
	// If $DISPLAY is set we just check to see if it's an X session
	d := trimDisplay(os.Getenv("DISPLAY"))
	if d != "" {
		if testXSession(d) {
			return []string{d}, nil
		}
		// Probably XWayland; xrandr still answers even when the RandR
		// extension data here would be useless
		return nil, nil
	}

	displays, err := runBash(
		`w "$USER" | { grep ' :[0-9]*' || test $? = 1; } | awk '{print $2}'`)
	if err != nil {
		return nil, err
	}

	for _, d := range strings.Split(strings.TrimSpace(displays), "\n") {
		if testXSession(d) {
			return []string{d}, nil
		}
	}

	return nil, nil
}

func listSessions() ([]session, error) {
	ids, err := listSessionIDs()
	if err != nil {
		return nil, err
	}
	output := []session{}

	for _, id := range ids {
		output = append(output, session{display: id, sType: xType})
	}
	return output, nil
}

func getXSessionData(s *session) ([]*Monitor, error) {
	monitors := []*Monitor{}
	X, err := xgbutil.NewConnDisplay(s.display)
	if err != nil {
		return nil, err
	}
	Xgb := X.Conn()

	wm, err := ewmh.GetEwmhWM(X)
	if err != nil {
		return nil, err
	}

	wm = strings.ToLower(wm)
	if strings.Contains(wm, "gnome") {
		s.env = gnome
	} else if wm == "i3" {
		s.env = i3
	} else {
		// Feh probably works
		fmt.Fprintf(os.Stderr, "Encountered unknown WM/DE: %s\n", wm)
		s.env = unknown
	}

	err = randr.Init(Xgb)
	if err != nil {
		return nil, err
	}

	root := xproto.Setup(Xgb).DefaultScreen(Xgb).Root

	resources, err := randr.GetScreenResources(Xgb, root).Reply()
	if err != nil {
		return nil, err
	}

	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(Xgb, crtc, 0).Reply()
		if err != nil {
			return nil, err
		}

		// Disabled CRTCs report a zero mode
		if info.Width == 0 || info.Height == 0 {
			continue
		}

		m := Monitor{
			X:       int(info.X),
			Y:       int(info.Y),
			Width:   int(info.Width),
			Height:  int(info.Height),
			session: s,
		}
		monitors = append(monitors, &m)
	}

	return monitors, nil
}

func monitorsForSession(s *session) ([]*Monitor, error) {
	monitors := []*Monitor{}
	if s.sType == xType {
		ms, err := getXSessionData(s)
		if err != nil {
			return nil, err
		}

		monitors = append(monitors, ms...)
	}

	return monitors, nil
}

// GetMonitors returns every active monitor, sorted left to right.
// Prefers a direct RandR query; falls back to parsing xrandr output when
// no usable X session is found (XWayland sessions end up there).
func GetMonitors() ([]*Monitor, error) {
	// Stop polluting stdout
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	sessions, err := listSessions()
	if err != nil {
		return nil, err
	}

	monitors := []*Monitor{}
	for _, s := range sessions {
		ms, err := monitorsForSession(&s)
		if err != nil {
			log.Printf("RandR query failed on display %s: %s", s.display, err)
			continue
		}
		monitors = append(monitors, ms...)
	}

	if len(monitors) == 0 {
		log.Println("No usable X sessions, querying xrandr directly")
		monitors, err = QueryXrandr()
		if err != nil {
			return nil, err
		}

		// gsettings is the only setter that works without an X connection
		s := &session{display: os.Getenv("DISPLAY"), env: gnome}
		for _, m := range monitors {
			m.session = s
		}
	}

	if len(monitors) == 0 {
		return nil, errors.New("No active monitors detected")
	}

	SortMonitors(monitors)
	return monitors, nil
}

// SortMonitors orders monitors by ascending x-offset, establishing the
// leftmost-to-rightmost order images are supplied in. Monitors sharing an
// x-offset are ordered by ascending y, so stacked layouts are stable.
func SortMonitors(monitors []*Monitor) {
	sort.SliceStable(monitors, func(i, j int) bool {
		if monitors[i].X != monitors[j].X {
			return monitors[i].X < monitors[j].X
		}
		return monitors[i].Y < monitors[j].Y
	})
}
