// Package report renders command results: the display information report,
// reconciliation results and preflight checks, in every ui.Format.
package report
