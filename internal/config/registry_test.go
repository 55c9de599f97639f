package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(pkgs []Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.ID)
	}
	return out
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"or1kelf", "systemc", "verilator"}, reg.IDs())
	assert.Equal(t, "14.04", reg.Params["ubuntu_release"])

	or1k := reg.Packages[0]
	assert.Equal(t, "--strip-components=1", or1k.ExtractArgs)
	assert.Equal(t, "toolchains", or1k.Dest)
	require.Len(t, or1k.Env, 2)
	assert.True(t, or1k.Env[0].IsListPrepend())

	verilator := reg.Packages[2]
	assert.Equal(t, "relocate.sh", verilator.Relocate)
	assert.Equal(t, "VERILATOR_ROOT", verilator.Env[0].Var)
	assert.False(t, verilator.Env[0].IsListPrepend())
}

func TestSelect(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		assert.Equal(t, reg.IDs(), ids(reg.Select([]string{"verilator", "all"})))
	})
	t.Run("subset keeps registry order", func(t *testing.T) {
		assert.Equal(t, []string{"or1kelf", "verilator"}, ids(reg.Select([]string{"verilator", "or1kelf"})))
	})
	t.Run("unknown ids ignored", func(t *testing.T) {
		assert.Equal(t, []string{"systemc"}, ids(reg.Select([]string{"nope", "systemc"})))
	})
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, reg.Select([]string{"nope"}))
		assert.Empty(t, reg.Select(nil))
	})
}

func TestSelectAllReturnsCopy(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	all := reg.Select([]string{AllToken})
	all[0].ID = "changed"
	assert.Equal(t, "or1kelf", reg.Packages[0].ID)
}

func TestMergeParams(t *testing.T) {
	reg := &Registry{Params: map[string]string{"ubuntu_release": "14.04", "arch": "amd64"}}

	got := reg.MergeParams(map[string]string{"ubuntu_release": "16.04", "arch": ""})
	assert.Equal(t, map[string]string{"ubuntu_release": "16.04", "arch": "amd64"}, got)
	assert.Equal(t, "14.04", reg.Params["ubuntu_release"])
}

func TestValidate(t *testing.T) {
	reg := &Registry{Packages: []Package{
		{ID: "a", Name: "a-1", Archive: "a.tgz", URL: "http://x", Dest: "d"},
		{ID: "a", Name: "a-2", Archive: "a.tgz", URL: "http://x", Dest: "d"},
		{ID: "all", Name: "x", Archive: "x.tgz", URL: "http://x", Dest: "d"},
		{Name: "b"},
		{ID: "c", Name: "c", Archive: "c.tgz", URL: "http://x", Dest: "d",
			Env: []EnvExport{{Var: "", Value: "{base}"}, {Var: "P", Type: "append"}}},
	}}

	err := reg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "[a]: duplicate id")
	assert.Contains(t, msg, `[all]: id "all" is reserved`)
	assert.Contains(t, msg, "[#3]: id is required, archive is required, url is required, dest is required")
	assert.Contains(t, msg, "env[0]: var is required")
	assert.Contains(t, msg, `env[1]: unknown type "append"`)
}

const yamlRegistry = `
params:
  ubuntu_release: "16.04"
packages:
  - id: verilator
    name: verilator-3.882
    archive: verilator-3.882.tgz
    url: https://example.com/prebuilts
    dest: prebuilt
    relocate: relocate.sh
    env:
      - var: VERILATOR_ROOT
        value: "{base}"
      - var: PATH
        type: list-prepend
        value: "{base}/bin"
`

const tomlRegistry = `
[params]
ubuntu_release = "16.04"

[[packages]]
id = "verilator"
name = "verilator-3.882"
archive = "verilator-3.882.tgz"
url = "https://example.com/prebuilts"
dest = "prebuilt"
relocate = "relocate.sh"

  [[packages.env]]
  var = "VERILATOR_ROOT"
  value = "{base}"

  [[packages.env]]
  var = "PATH"
  type = "list-prepend"
  value = "{base}/bin"
`

func TestLoadRegistryFormats(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "reg.yaml")
	tomlPath := filepath.Join(dir, "reg.toml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlRegistry), 0o644))
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlRegistry), 0o644))

	fromYAML, err := LoadRegistry(yamlPath)
	require.NoError(t, err)
	fromTOML, err := LoadRegistry(tomlPath)
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromTOML)
	require.Len(t, fromYAML.Packages, 1)
	assert.Equal(t, "verilator-3.882", fromYAML.Packages[0].Name)
	assert.Equal(t, []EnvExport{
		{Var: "VERILATOR_ROOT", Value: "{base}"},
		{Var: "PATH", Value: "{base}/bin", Type: TypeListPrepend},
	}, fromYAML.Packages[0].Env)
}

func TestLoadRegistryErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRegistry(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read registry")

	jsonPath := filepath.Join(dir, "reg.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o644))
	_, err = LoadRegistry(jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported registry format")

	badPath := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(badPath, []byte("packages:\n  - id: x\n"), 0o644))
	_, err = LoadRegistry(badPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry validation errors")
}
