package display

var (
	// Preferred2K is returned when a monitor advertises 2560x1440
	Preferred2K = Resolution{Width: 2560, Height: 1440, Refresh: 60}
	// Fallback1080p is returned when a monitor advertises 1920x1080
	Fallback1080p = Resolution{Width: 1920, Height: 1080, Refresh: 60}
)

// SelectBest picks the resolution to apply to m.
//
// The order is fixed: exact 2560x1440 (as 2560x1440@60), exact 1920x1080
// (as 1920x1080@60), the first advertised mode 1440 lines high, and finally
// the first advertised mode. It reports false when nothing is advertised.
func SelectBest(m Monitor) (Resolution, bool) {
	if len(m.Available) == 0 {
		return Resolution{}, false
	}

	for _, r := range m.Available {
		if r.Width == Preferred2K.Width && r.Height == Preferred2K.Height {
			return Preferred2K, true
		}
	}
	for _, r := range m.Available {
		if r.Width == Fallback1080p.Width && r.Height == Fallback1080p.Height {
			return Fallback1080p, true
		}
	}
	for _, r := range m.Available {
		if r.Height == 1440 {
			return r, true
		}
	}
	return m.Available[0], true
}
