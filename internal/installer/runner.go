package installer

import (
	"context"
	"os/exec"
	"strings"

	"prebuilt-deploy/internal/logger"
)

// Runner executes a shell command line and returns its combined stdout and stderr.
type Runner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

// ShellRunner runs commands through "sh -c".
type ShellRunner struct{}

// Run executes command and returns its combined output. A non-zero exit status
// is reported as an *exec.ExitError.
func (ShellRunner) Run(ctx context.Context, command string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	logger.Debug("[DEBUG] Running command: %s\n", command)
	return cmd.CombinedOutput()
}

// shellQuote quotes s for sh unless it consists only of characters that need no quoting.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_./:=+,@%", r):
		return false
	}
	return true
}
