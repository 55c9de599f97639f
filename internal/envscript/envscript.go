// Package envscript builds the shell snippet that exports the environment
// of installed prebuilt packages.
package envscript

import (
	"fmt"
	"os"
	"strings"

	"prebuilt-deploy/internal/config"
)

// FileName is the name of the generated script inside the destination root.
const FileName = "setup_prebuilt.sh"

// Header is the first line of every generated script.
const Header = "# Auto-generated, do not change"

// ExportLine renders a single export statement for rule with {base} bound to base.
func ExportLine(rule config.EnvExport, base string) (string, error) {
	value, err := config.Render(rule.Value, map[string]string{"base": base})
	if err != nil {
		return "", fmt.Errorf("env %s: %w", rule.Var, err)
	}
	if rule.IsListPrepend() {
		value = fmt.Sprintf("%s:$%s", value, rule.Var)
	}
	return fmt.Sprintf("export %s=%s", rule.Var, value), nil
}

// Script accumulates export lines in package processing order.
type Script struct {
	lines []string
}

// New returns a script holding only the header.
func New() *Script {
	return &Script{lines: []string{Header}}
}

// Add appends the exports of pkg installed at base, preceded by a blank line
// and a "# <name>" comment. Packages without exports add nothing.
// Nothing is appended if any rule fails to render.
func (s *Script) Add(pkg config.Package, base string) error {
	if len(pkg.Env) == 0 {
		return nil
	}

	group := []string{"", "# " + pkg.Name}
	for _, rule := range pkg.Env {
		line, err := ExportLine(rule, base)
		if err != nil {
			return fmt.Errorf("package %s: %w", pkg.ID, err)
		}
		group = append(group, line)
	}
	s.lines = append(s.lines, group...)
	return nil
}

// Lines returns a copy of the accumulated lines.
func (s *Script) Lines() []string {
	return append([]string(nil), s.lines...)
}

// String joins the lines with newlines and terminates the last one.
func (s *Script) String() string {
	return strings.Join(s.lines, "\n") + "\n"
}

// WriteFile writes the script to path, replacing any previous content.
func (s *Script) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(s.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
