package display

import (
	"fmt"
	"strconv"
)

// Resolution is a video mode size with an optional refresh rate.
// A zero Refresh means the rate is unknown.
type Resolution struct {
	Width   int     `json:"width" yaml:"width"`
	Height  int     `json:"height" yaml:"height"`
	Refresh float64 `json:"refresh,omitempty" yaml:"refresh,omitempty"`
}

// String renders WIDTHxHEIGHT, with @RATEHz when the rate is known
func (r Resolution) String() string {
	if r.Refresh > 0 {
		return fmt.Sprintf("%dx%d@%sHz", r.Width, r.Height, strconv.FormatFloat(r.Refresh, 'f', -1, 64))
	}
	return r.Size()
}

// Size renders WIDTHxHEIGHT
func (r Resolution) Size() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Monitor is one display output as reported by a detection source
type Monitor struct {
	Name      string       `json:"name" yaml:"name"`
	Connected bool         `json:"connected" yaml:"connected"`
	Primary   bool         `json:"primary" yaml:"primary"`
	Current   *Resolution  `json:"current,omitempty" yaml:"current,omitempty"`
	Available []Resolution `json:"available,omitempty" yaml:"available,omitempty"`

	// DescriptorSize and DescriptorPath describe the raw EDID blob found
	// by the sysfs fallback.
	DescriptorSize int64  `json:"descriptor_size,omitempty" yaml:"descriptor_size,omitempty"`
	DescriptorPath string `json:"descriptor_path,omitempty" yaml:"descriptor_path,omitempty"`
}

// Connected returns the connected monitors in detection order
func Connected(monitors []Monitor) []Monitor {
	var connected []Monitor
	for _, m := range monitors {
		if m.Connected {
			connected = append(connected, m)
		}
	}
	return connected
}

// Primary returns the first connected monitor flagged primary, else the
// first connected monitor.
func Primary(monitors []Monitor) (Monitor, bool) {
	connected := Connected(monitors)
	for _, m := range connected {
		if m.Primary {
			return m, true
		}
	}
	if len(connected) > 0 {
		return connected[0], true
	}
	return Monitor{}, false
}
