package ports

import (
	"context"
	"time"

	"farmbot/internal/core/domain"
)

// Handle is an opaque reference to a resolved destination location: a cloud
// folder identifier or a filesystem path, depending on the backend.
type Handle string

// ClipSource defines the contract for discovering creators and their clips
// from the streaming platform.
type ClipSource interface {
	// TopCreators returns up to n currently-live creators ranked by viewer
	// count. Fewer than n live channels is not an error.
	TopCreators(ctx context.Context, n int) ([]domain.Creator, error)

	// ResolveCreator resolves a channel login to a platform identity.
	ResolveCreator(ctx context.Context, login string) (domain.Creator, error)

	// RecentClips returns the creator's most recent clips, up to max.
	RecentClips(ctx context.Context, creator domain.Creator, max int) ([]domain.Clip, error)

	// ClipsSince returns the creator's clips created after since, up to max.
	ClipsSince(ctx context.Context, creator domain.Creator, since time.Time, max int) ([]domain.Clip, error)
}

// Fetcher defines the contract for producing a local media file from a
// source locator. Implementations guarantee the output file exists on
// return with a nil error.
type Fetcher interface {
	// Fetch downloads the media at url into outPath.
	Fetch(ctx context.Context, url, outPath string) error

	// FetchSection downloads a window of durationSec seconds starting at
	// startSec seconds into the media at url.
	FetchSection(ctx context.Context, url, outPath string, startSec, durationSec int) error
}

// Destination defines the contract for the delivery backend.
type Destination interface {
	// Resolve ensures the fixed folder hierarchy ending in the dateStamp
	// leaf exists, creating missing levels, and returns a handle for
	// writes. Resolve is idempotent for identical inputs.
	Resolve(ctx context.Context, dateStamp string) (Handle, error)

	// Deliver writes the local file at path into the resolved location
	// under name. Existing entries with the same name are overwritten or
	// duplicated per backend semantics; no existence check is performed.
	Deliver(ctx context.Context, h Handle, name, path string) error
}
