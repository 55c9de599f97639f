package installer

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data

	"prebuilt-deploy/internal/logger"
)

// Extractor unpacks an archive into outDir. extraArgs carries the package's
// extra extraction flags. The returned output is whatever the extraction
// produced on stdout/stderr, if anything.
type Extractor interface {
	Extract(ctx context.Context, archive, extraArgs, outDir string) ([]byte, error)
}

// Extractor kinds accepted by NewExtractor.
const (
	ExtractorTar    = "tar"
	ExtractorNative = "native"
)

// NewExtractor returns the extractor registered under kind.
func NewExtractor(kind string, runner Runner) (Extractor, error) {
	switch kind {
	case ExtractorTar, "":
		return TarExtractor{Runner: runner}, nil
	case ExtractorNative:
		return NativeExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want %s or %s)", kind, ExtractorTar, ExtractorNative)
	}
}

// TarExtractor shells out to "tar -xzf".
type TarExtractor struct {
	Runner Runner
}

// Extract runs tar through the Runner; extraArgs are passed through verbatim.
func (t TarExtractor) Extract(ctx context.Context, archive, extraArgs, outDir string) ([]byte, error) {
	parts := []string{"tar", "-xzf", shellQuote(archive)}
	if extraArgs = strings.TrimSpace(extraArgs); extraArgs != "" {
		parts = append(parts, extraArgs)
	}
	parts = append(parts, "-C", shellQuote(outDir))
	return t.Runner.Run(ctx, strings.Join(parts, " "))
}

// NativeExtractor unpacks archives in-process. It understands .tar, .tar.gz/.tgz,
// .tar.bz2/.tbz2, .tar.xz/.txz, .zip and .7z, and the only extra flag it accepts
// is --strip-components=N.
type NativeExtractor struct{}

// Extract unpacks archive into outDir. It produces no output.
func (NativeExtractor) Extract(ctx context.Context, archive, extraArgs, outDir string) ([]byte, error) {
	strip, err := parseExtractArgs(extraArgs)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(filepath.Base(archive))
	switch {
	case strings.HasSuffix(name, ".zip"):
		logger.Debug("[DEBUG] compression type is zip\n")
		return nil, extractZip(ctx, archive, outDir, strip)
	case strings.HasSuffix(name, ".7z"):
		logger.Debug("[DEBUG] compression type is .7z\n")
		return nil, extract7z(ctx, archive, outDir, strip)
	case strings.HasSuffix(name, ".tar"), strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"),
		strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz2"),
		strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		logger.Debug("[DEBUG] compression type is .tar.*\n")
		return nil, extractTarArchive(ctx, archive, outDir, strip)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", archive)
	}
}

// parseExtractArgs returns the number of leading path components to strip.
func parseExtractArgs(extraArgs string) (int, error) {
	strip := 0
	for _, arg := range strings.Fields(extraArgs) {
		value, ok := strings.CutPrefix(arg, "--strip-components=")
		if !ok {
			return 0, fmt.Errorf("unsupported extract argument %q", arg)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid --strip-components value %q", value)
		}
		strip = n
	}
	return strip, nil
}

// entryTarget maps an archive entry name to a path under outDir after removing
// strip leading components. ok is false when nothing is left of the name.
// The name is rooted before cleaning so ".." cannot escape outDir.
func entryTarget(outDir, name string, strip int) (string, bool) {
	cleaned := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
	if cleaned == "" {
		return "", false
	}
	parts := strings.Split(cleaned, "/")
	if len(parts) <= strip {
		return "", false
	}
	return filepath.Join(outDir, filepath.FromSlash(strings.Join(parts[strip:], "/"))), true
}

// extractTarArchive handles tar and compressed tar variants
func extractTarArchive(ctx context.Context, src, dest string, strip int) error {
	logger.Debug("[DEBUG] uncompressing %s to %s\n", src, dest)
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	name := strings.ToLower(src)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip: %w", err)
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return fmt.Errorf("open xz: %w", err)
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}

		target, ok := entryTarget(dest, hdr.Name, strip)
		if !ok {
			continue
		}
		mode := hdr.FileInfo().Mode()

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, mode.Perm()|0700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, mode.Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(target, hdr.Linkname); err != nil {
				return err
			}
		case tar.TypeLink:
			linkTarget, ok := entryTarget(dest, hdr.Linkname, strip)
			if !ok {
				return fmt.Errorf("hard link %s points outside the archive root", hdr.Name)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			_ = os.Remove(target)
			if err := os.Link(linkTarget, target); err != nil {
				return err
			}
		default:
			logger.Debug("[DEBUG] skipping %s (type %c)\n", hdr.Name, hdr.Typeflag)
		}
	}
	return nil
}

// extractZip extracts a .zip archive
func extractZip(ctx context.Context, src, dest string, strip int) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, ok := entryTarget(dest, f.Name, strip)
		if !ok {
			continue
		}
		if err := extractEntry(target, f.Mode(), f.Open); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return nil
}

// extract7z handles .7z extraction using the sevenzip library
func extract7z(ctx context.Context, src, dest string, strip int) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, ok := entryTarget(dest, f.Name, strip)
		if !ok {
			continue
		}
		if err := extractEntry(target, f.Mode(), f.Open); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return nil
}

// extractEntry materialises one zip or 7z entry. Symlink entries store their
// target as the file content.
func extractEntry(target string, mode os.FileMode, open func() (io.ReadCloser, error)) error {
	if mode.IsDir() {
		return os.MkdirAll(target, mode.Perm()|0700)
	}

	rc, err := open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if mode&os.ModeSymlink != 0 {
		link, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		return writeSymlink(target, string(link))
	}
	return writeFile(target, rc, mode.Perm())
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile applies the umask and leaves existing files' modes alone.
	return os.Chmod(target, perm)
}

func writeSymlink(target, linkname string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	_ = os.Remove(target)
	return os.Symlink(linkname, target)
}
