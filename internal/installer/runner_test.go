package installer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunner(t *testing.T) {
	out, err := ShellRunner{}.Run(context.Background(), "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\nerr\n", string(out))

	out, err = ShellRunner{}.Run(context.Background(), "echo relocating; exit 3")
	require.Error(t, err)
	assert.Equal(t, "relocating\n", string(out))
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "/opt/optimsoc/prebuilt/verilator-3.880/relocate.sh", shellQuote("/opt/optimsoc/prebuilt/verilator-3.880/relocate.sh"))
	assert.Equal(t, "'/opt/my dir'", shellQuote("/opt/my dir"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
	assert.Equal(t, "''", shellQuote(""))
}
