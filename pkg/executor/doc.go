// Package executor runs external tools (xrandr, cvt, gtf, sudo) and captures
// their output for the parsers in pkg/display and the privileged writer.
package executor
