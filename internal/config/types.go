package config

// Export types understood by EnvExport.Type.
const (
	TypeAssign      = "assign"       // V=X
	TypeListPrepend = "list-prepend" // V=X:$V
)

// AllToken selects every package in the registry.
const AllToken = "all"

// EnvExport is one environment variable the setup script exports for a package.
// - Var: Shell variable name (e.g., PATH).
// - Value: Value template; {base} is replaced by the package base path.
// - Type: "assign" (default when empty) or "list-prepend".
type EnvExport struct {
	Var   string `yaml:"var" toml:"var"`
	Value string `yaml:"value" toml:"value"`
	Type  string `yaml:"type,omitempty" toml:"type"`
}

// IsListPrepend reports whether the rendered value is prepended to the variable's prior value.
func (e EnvExport) IsListPrepend() bool {
	return e.Type == TypeListPrepend
}

// Package describes one installable prebuilt archive.
// - ID: Short identifier used on the command line (e.g., verilator).
// - Name: Top-level directory the archive extracts to.
// - Archive: Archive filename template, e.g. foo-{ubuntu_release}.tgz.
// - URL: Base URL the archive is fetched from.
// - ExtractArgs: Optional extra flags for the extraction step.
// - Dest: Subdirectory under the destination root.
// - Relocate: Optional script, relative to the package directory, run once after extraction.
// - Env: Ordered environment exports for the setup script.
type Package struct {
	ID          string      `yaml:"id" toml:"id"`
	Name        string      `yaml:"name" toml:"name"`
	Archive     string      `yaml:"archive" toml:"archive"`
	URL         string      `yaml:"url" toml:"url"`
	ExtractArgs string      `yaml:"extract_args,omitempty" toml:"extract_args"`
	Dest        string      `yaml:"dest" toml:"dest"`
	Relocate    string      `yaml:"relocate,omitempty" toml:"relocate"`
	Env         []EnvExport `yaml:"env,omitempty" toml:"env"`
}

// Registry is the ordered table of installable packages.
// Params holds default values for archive template placeholders.
type Registry struct {
	Params   map[string]string `yaml:"params,omitempty" toml:"params"`
	Packages []Package         `yaml:"packages" toml:"packages"`
}
