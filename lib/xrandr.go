package copiclib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var geometryRE = regexp.MustCompile(`(\d+)x(\d+)\+(\d+)\+(\d+)`)

// ParseXrandr extracts active monitor geometry from `xrandr -q` output.
//
// Connected outputs carry a WxH+X+Y geometry token; connected but
// disabled outputs carry none and are skipped along with disconnected
// ones. The result is sorted left to right.
func ParseXrandr(output string) ([]*Monitor, error) {
	monitors := []*Monitor{}

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] != "connected" {
			continue
		}

		geom := geometryRE.FindStringSubmatch(line)
		if geom == nil {
			// Connected but disabled, no mode set
			continue
		}

		dims := [4]int{}
		for i := range dims {
			n, err := strconv.Atoi(geom[i+1])
			if err != nil {
				return nil, fmt.Errorf(
					"unparseable geometry [%s] for output %s: %w",
					geom[0], fields[0], err)
			}
			dims[i] = n
		}

		monitors = append(monitors, &Monitor{
			Width:  dims[0],
			Height: dims[1],
			X:      dims[2],
			Y:      dims[3],
		})
	}

	if len(monitors) == 0 {
		return nil, fmt.Errorf("%w in xrandr output", ErrNoMonitors)
	}

	SortMonitors(monitors)
	return monitors, nil
}

// QueryXrandr runs xrandr once and parses its output. No retries; a
// failed or empty query is a fatal configuration problem.
func QueryXrandr() ([]*Monitor, error) {
	out, err := runBash(`xrandr -q`)
	if err != nil {
		return nil, fmt.Errorf("xrandr query failed: %w", err)
	}

	return ParseXrandr(out)
}
