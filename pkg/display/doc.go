// Package display detects connected monitors and turns them into xrandr
// mode-setting commands.
//
// Detection asks xrandr first and falls back to the DRM connectors under
// /sys/class/drm when xrandr is missing. SelectBest applies the fixed
// resolution preference (2560x1440, then 1920x1080, then any 1440-line mode,
// then the first advertised mode). ModeLineResolver produces modelines
// through cvt or gtf, preferring the EDID refresh rate when the EDID
// preferred timing matches the requested size.
package display
