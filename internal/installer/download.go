package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"prebuilt-deploy/internal/logger"
)

// Fetcher retrieves a remote archive into a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// HTTPFetcher downloads over HTTP(S). A nil Client means http.DefaultClient.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch downloads url into destPath. Any non-2xx response is an error and
// a partially written file is removed.
func (f HTTPFetcher) Fetch(ctx context.Context, url, destPath string) (err error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	logger.Debug("[DEBUG] GET %s\n", url)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		cerr := out.Close()
		if err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", destPath, cerr)
		}
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded %d bytes to %s\n", n, destPath)
	return nil
}
