package reconcile

import (
	"io/fs"
	"path/filepath"
)

// Kind identifies a managed file
type Kind int

const (
	// KindHook is the display-setup script LightDM runs before the greeter
	KindHook Kind = iota
	// KindConfig is the LightDM configuration fragment
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindHook:
		return "hook"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// LightDMConfDir is where both managed files are deployed
const LightDMConfDir = "/etc/lightdm/lightdm.conf.d"

// ManagedFile declares one file under reconciliation
type ManagedFile struct {
	Kind Kind
	// Source is relative to the source-of-truth root
	Source string
	// Target is absolute
	Target string
	Mode   fs.FileMode
	Owner  string
	Group  string
}

// Name returns the target base name
func (f ManagedFile) Name() string {
	return filepath.Base(f.Target)
}

var (
	// HookFile is deployed executable and owned by the lightdm account
	HookFile = ManagedFile{
		Kind:   KindHook,
		Source: "etc/lightdm/lightdm.conf.d/add-and-set-resolution.sh",
		Target: LightDMConfDir + "/add-and-set-resolution.sh",
		Mode:   0755,
		Owner:  "lightdm",
		Group:  "lightdm",
	}

	// ConfigFile is deployed world-readable and owned by root
	ConfigFile = ManagedFile{
		Kind:   KindConfig,
		Source: "etc/lightdm/lightdm.conf.d/10-config.conf",
		Target: LightDMConfDir + "/10-config.conf",
		Mode:   0644,
		Owner:  "root",
		Group:  "root",
	}
)

// DefaultFiles returns the managed files in check order
func DefaultFiles() []ManagedFile {
	return []ManagedFile{HookFile, ConfigFile}
}
