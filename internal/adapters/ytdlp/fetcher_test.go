package ytdlp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionSpec(t *testing.T) {
	assert.Equal(t, "*60-120", sectionSpec(60, 60))
	assert.Equal(t, "*600-660", sectionSpec(600, 60))
	assert.Equal(t, "*0-30", sectionSpec(0, 30))
}

func TestFetchMissingOutputIsError(t *testing.T) {
	// "true" exits zero without writing anything; the fetcher must still
	// report failure because no file was produced.
	f := &Fetcher{binaryPath: "true"}
	out := filepath.Join(t.TempDir(), "clip.mp4")

	err := f.Fetch(context.Background(), "https://example.com/v", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestFetchCommandFailure(t *testing.T) {
	f := &Fetcher{binaryPath: "false"}
	out := filepath.Join(t.TempDir(), "clip.mp4")

	err := f.Fetch(context.Background(), "https://example.com/v", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yt-dlp failed")
}
