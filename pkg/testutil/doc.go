// Package testutil provides fakes and fixtures shared by displayctl tests:
// a scripted subprocess runner, a recording ownership table and helpers that
// lay out files on an in-memory filesystem.
package testutil
