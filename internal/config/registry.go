package config

import (
	"fmt"
	"strings"
)

// Validate checks every package and reports all problems at once.
func (r *Registry) Validate() error {
	var errs []string
	seen := make(map[string]bool, len(r.Packages))

	for i, p := range r.Packages {
		label := p.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}

		var fieldErrs []string
		switch {
		case p.ID == "":
			fieldErrs = append(fieldErrs, "id is required")
		case p.ID == AllToken:
			fieldErrs = append(fieldErrs, fmt.Sprintf("id %q is reserved", AllToken))
		case seen[p.ID]:
			fieldErrs = append(fieldErrs, "duplicate id")
		}
		seen[p.ID] = true

		if p.Name == "" {
			fieldErrs = append(fieldErrs, "name is required")
		}
		if p.Archive == "" {
			fieldErrs = append(fieldErrs, "archive is required")
		}
		if p.URL == "" {
			fieldErrs = append(fieldErrs, "url is required")
		}
		if p.Dest == "" {
			fieldErrs = append(fieldErrs, "dest is required")
		}
		for j, e := range p.Env {
			if e.Var == "" {
				fieldErrs = append(fieldErrs, fmt.Sprintf("env[%d]: var is required", j))
			}
			if e.Type != "" && e.Type != TypeAssign && e.Type != TypeListPrepend {
				fieldErrs = append(fieldErrs, fmt.Sprintf("env[%d]: unknown type %q", j, e.Type))
			}
		}

		if len(fieldErrs) > 0 {
			errs = append(errs, fmt.Sprintf("[%s]: %s", label, strings.Join(fieldErrs, ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation errors:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// IDs returns the package identifiers in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.Packages))
	for _, p := range r.Packages {
		ids = append(ids, p.ID)
	}
	return ids
}

// Select returns the packages named in requested, in registry order.
// The "all" token selects everything. Unknown identifiers are ignored.
func (r *Registry) Select(requested []string) []Package {
	want := make(map[string]bool, len(requested))
	for _, id := range requested {
		if id == AllToken {
			return append([]Package(nil), r.Packages...)
		}
		want[id] = true
	}

	var selected []Package
	for _, p := range r.Packages {
		if want[p.ID] {
			selected = append(selected, p)
		}
	}
	return selected
}

// MergeParams returns the registry's default params overlaid with overrides.
// Empty override values are skipped so an unset flag keeps the registry default.
func (r *Registry) MergeParams(overrides map[string]string) map[string]string {
	params := make(map[string]string, len(r.Params)+len(overrides))
	for k, v := range r.Params {
		params[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			params[k] = v
		}
	}
	return params
}
