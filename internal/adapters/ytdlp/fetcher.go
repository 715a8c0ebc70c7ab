package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

const fetchTimeout = 15 * time.Minute

// Fetcher implements ports.Fetcher using the local yt-dlp binary.
type Fetcher struct {
	binaryPath string
}

// NewFetcher creates a new fetcher.
func NewFetcher() *Fetcher {
	// Prefer a binary dropped into the working directory, fall back to PATH.
	if _, err := os.Stat("yt-dlp"); err == nil {
		return &Fetcher{binaryPath: "./yt-dlp"}
	}
	return &Fetcher{binaryPath: "yt-dlp"}
}

// Fetch downloads the media at url into outPath.
func (f *Fetcher) Fetch(ctx context.Context, url, outPath string) error {
	return f.run(ctx, outPath, "--quiet", "-o", outPath, url)
}

// FetchSection downloads a durationSec window starting startSec seconds into
// the media at url.
func (f *Fetcher) FetchSection(ctx context.Context, url, outPath string, startSec, durationSec int) error {
	section := sectionSpec(startSec, durationSec)
	return f.run(ctx, outPath, "--quiet", "--download-sections", section, "-o", outPath, url)
}

func (f *Fetcher) run(ctx context.Context, outPath string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.binaryPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "yt-dlp failed: stderr: %s", stderr.String())
	}

	// yt-dlp can exit zero without producing output (e.g. unavailable
	// formats); the contract is that a nil error means the file exists.
	if _, err := os.Stat(outPath); err != nil {
		return errors.Errorf("yt-dlp reported success but %s is missing", outPath)
	}
	return nil
}

// sectionSpec renders the yt-dlp --download-sections argument for a window
// of durationSec seconds starting at startSec.
func sectionSpec(startSec, durationSec int) string {
	return fmt.Sprintf("*%d-%d", startSec, startSec+durationSec)
}
