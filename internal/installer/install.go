package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"prebuilt-deploy/internal/config"
	"prebuilt-deploy/internal/envscript"
	"prebuilt-deploy/internal/logger"
)

// Pipeline steps reported in a StepError.
const (
	StepRender   = "render"
	StepDownload = "download"
	StepExtract  = "extract"
	StepRelocate = "relocate"
	StepEnv      = "env"
	StepWrite    = "write"
)

// StepError reports which step failed for which package, along with any
// output captured from the command that ran.
type StepError struct {
	Step    string
	Package string
	Output  []byte
	Err     error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s error for %s: %v", e.Step, e.Package, e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *StepError) Unwrap() error { return e.Err }

// Installer downloads, extracts and relocates packages one at a time and
// collects their environment exports.
type Installer struct {
	Dest      string            // Destination root
	Params    map[string]string // Archive template parameters, e.g. ubuntu_release
	TmpDir    string            // Where archives are downloaded; os.TempDir() if empty
	Fetcher   Fetcher
	Extractor Extractor
	Runner    Runner
}

// BasePath is where the extracted top-level directory of pkg lives under dest.
func BasePath(dest string, pkg config.Package) string {
	return filepath.Join(dest, pkg.Dest, pkg.Name)
}

// ScriptPath is the location of the generated setup script.
func (in *Installer) ScriptPath() string {
	return filepath.Join(in.Dest, envscript.FileName)
}

// Run installs pkgs in order and then writes the setup script. Any failure
// stops the run before the script is written; packages already extracted
// stay on disk.
func (in *Installer) Run(ctx context.Context, pkgs []config.Package) error {
	script, err := in.Install(ctx, pkgs)
	if err != nil {
		return err
	}

	logger.Info("[INFO] Write %s\n", envscript.FileName)
	if err := script.WriteFile(in.ScriptPath()); err != nil {
		return &StepError{Step: StepWrite, Package: envscript.FileName, Err: err}
	}
	logger.Info("[INFO] Done\n")
	return nil
}

// Install runs the per-package steps and returns the accumulated script.
func (in *Installer) Install(ctx context.Context, pkgs []config.Package) (*envscript.Script, error) {
	script := envscript.New()
	for _, pkg := range pkgs {
		if err := in.installPackage(ctx, pkg, script); err != nil {
			return nil, err
		}
	}
	return script, nil
}

func (in *Installer) installPackage(ctx context.Context, pkg config.Package, script *envscript.Script) error {
	logger.Info("[INFO] Install %s\n", pkg.ID)

	logger.Step(" + Download\n")
	archiveName, err := config.Render(pkg.Archive, in.Params)
	if err != nil {
		return &StepError{Step: StepRender, Package: pkg.ID, Err: err}
	}
	url := fmt.Sprintf("%s/%s", pkg.URL, archiveName)

	tmpDir := in.TmpDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	archive := filepath.Join(tmpDir, filepath.Base(archiveName))
	if err := in.Fetcher.Fetch(ctx, url, archive); err != nil {
		return &StepError{Step: StepDownload, Package: pkg.ID, Err: err}
	}
	defer func() {
		if err := os.Remove(archive); err != nil && !os.IsNotExist(err) {
			logger.Debug("[DEBUG] Failed to remove %s: %v\n", archive, err)
		}
	}()

	logger.Step(" + Extract\n")
	out := filepath.Join(in.Dest, pkg.Dest)
	// Directory creation failures are not fatal; extraction reports the real problem.
	if err := ensureDir(out); err != nil {
		logger.Warn("[WARN] Cannot make output dir %s: %v\n", out, err)
	}

	if output, err := in.Extractor.Extract(ctx, archive, pkg.ExtractArgs, out); err != nil {
		return &StepError{Step: StepExtract, Package: pkg.ID, Output: output, Err: err}
	}

	base := BasePath(in.Dest, pkg)

	if pkg.Relocate != "" {
		logger.Step(" + Relocate\n")
		command := shellQuote(filepath.Join(base, pkg.Relocate))
		if output, err := in.Runner.Run(ctx, command); err != nil {
			return &StepError{Step: StepRelocate, Package: pkg.ID, Output: output, Err: err}
		}
	}

	if err := script.Add(pkg, base); err != nil {
		return &StepError{Step: StepEnv, Package: pkg.ID, Err: err}
	}
	return nil
}

// ensureDir creates dir unless something already exists at that path.
// An existing path, directory or not, is left for the extraction step to deal with.
func ensureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		logger.Debug("[DEBUG] Output dir %s already exists\n", dir)
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
