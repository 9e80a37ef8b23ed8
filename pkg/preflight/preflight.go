// Package preflight checks that the binaries a graphical session needs are
// installed and suggests the packages providing the missing ones.
package preflight

import (
	"sort"
	"strings"

	"github.com/textyre/bootstrap/pkg/logging"
)

// ExitMissing is the process exit code when binaries are missing
const ExitMissing = 3

// PathLooker resolves a binary on PATH. types.Runner satisfies it.
type PathLooker interface {
	LookPath(name string) (string, error)
}

// BinaryStatus is the lookup result for one binary
type BinaryStatus struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Package string `json:"package" yaml:"package"`
	Found   bool   `json:"found" yaml:"found"`
}

// Report is the outcome of a check
type Report struct {
	Binaries []BinaryStatus `json:"binaries" yaml:"binaries"`
}

// OK reports whether every binary was found
func (r Report) OK() bool {
	return len(r.Missing()) == 0
}

// Missing returns the names of binaries not on PATH
func (r Report) Missing() []string {
	var missing []string
	for _, b := range r.Binaries {
		if !b.Found {
			missing = append(missing, b.Name)
		}
	}
	return missing
}

// Packages returns the sorted, deduplicated packages for missing binaries
func (r Report) Packages() []string {
	seen := map[string]bool{}
	var pkgs []string
	for _, b := range r.Binaries {
		if b.Found || seen[b.Package] {
			continue
		}
		seen[b.Package] = true
		pkgs = append(pkgs, b.Package)
	}
	sort.Strings(pkgs)
	return pkgs
}

// InstallHint returns a pacman command installing the missing packages, or
// "" when nothing is missing.
func (r Report) InstallHint() string {
	pkgs := r.Packages()
	if len(pkgs) == 0 {
		return ""
	}
	return "sudo pacman -S --needed " + strings.Join(pkgs, " ")
}

// Checker looks up binaries
type Checker struct {
	looker   PathLooker
	packages map[string]string
}

// NewChecker creates a checker. packages maps binary names to the package
// providing them; unmapped binaries are assumed to share the package name.
func NewChecker(looker PathLooker, packages map[string]string) *Checker {
	return &Checker{looker: looker, packages: packages}
}

// Check looks up every binary in order
func (c *Checker) Check(binaries []string) Report {
	logger := logging.GetLogger("preflight")
	report := Report{Binaries: make([]BinaryStatus, 0, len(binaries))}

	for _, name := range binaries {
		status := BinaryStatus{Name: name, Package: c.packageFor(name)}
		if path, err := c.looker.LookPath(name); err == nil {
			status.Path = path
			status.Found = true
		}
		report.Binaries = append(report.Binaries, status)
	}

	if missing := report.Missing(); len(missing) > 0 {
		logger.Error().
			Strs("missing", missing).
			Str("suggestion", report.InstallHint()).
			Msg("Missing required binaries")
	} else {
		logger.Info().Int("binaries", len(binaries)).Msg("Required binaries present")
	}
	return report
}

func (c *Checker) packageFor(name string) string {
	if pkg, ok := c.packages[name]; ok && pkg != "" {
		return pkg
	}
	return name
}
