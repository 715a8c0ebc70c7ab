package service

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"farmbot/internal/config"
	"farmbot/internal/core/domain"
	"farmbot/internal/core/ports"
)

const (
	dateStampFormat = "2006-01-02"

	clipWindow = 24 * time.Hour

	// Supplementary slices start at a uniformly random offset within
	// [minSliceOffset, maxSliceOffset] seconds and last sliceDuration.
	minSliceOffset = 60
	maxSliceOffset = 600
	sliceDuration  = 60
)

// Orchestrator sequences the harvest pipeline: discovery, selection,
// acquisition, destination resolution, delivery.
type Orchestrator struct {
	source  ports.ClipSource
	fetcher ports.Fetcher
	dest    ports.Destination
	cfg     config.Config
	log     *logrus.Logger

	now        func() time.Time
	rng        *rand.Rand
	scratchDir string
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	source ports.ClipSource,
	fetcher ports.Fetcher,
	dest ports.Destination,
	cfg config.Config,
	log *logrus.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:  source,
		fetcher: fetcher,
		dest:    dest,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes one complete harvest. The returned error is reserved for
// fatal conditions; per-item failures are logged and reflected only in the
// summary counts. A run that finds nothing to do returns a zeroed summary
// and a nil error.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunSummary, error) {
	start := o.now().UTC()
	summary := &domain.RunSummary{RunID: uuid.New().String()}
	o.log.Infof("starting harvest run %s", summary.RunID)

	pool, err := o.discover(ctx, start)
	if err != nil {
		return nil, err
	}
	summary.Discovered = len(pool)
	o.log.Infof("discovered %d candidate clips", len(pool))

	var selected []domain.Clip
	if o.cfg.TopLiveMode() {
		selected = SelectRecent(pool, config.RecentClipCount, o.cfg.ClipLimit)
	} else {
		selected = SelectByViews(pool, o.cfg.MinViews, o.cfg.ClipLimit)
	}
	summary.Selected = len(selected)
	if len(selected) == 0 {
		o.log.Info("no clips selected, nothing to do")
		summary.CompletedAt = o.now().UTC()
		return summary, nil
	}
	o.log.Infof("selected %d clips", len(selected))

	scratch := o.scratchDir
	if scratch == "" {
		scratch, err = os.MkdirTemp("", "farmbot_")
		if err != nil {
			return nil, errors.Wrap(err, "failed to create scratch directory")
		}
		defer os.RemoveAll(scratch)
	}
	dlDir := filepath.Join(scratch, "clips")
	if err := os.MkdirAll(dlDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create download directory")
	}
	o.log.Infof("download directory: %s", dlDir)

	files := o.acquire(ctx, selected, dlDir)
	summary.Acquired = len(files)
	if len(files) == 0 {
		o.log.Info("no files acquired, skipping delivery")
		summary.CompletedAt = o.now().UTC()
		return summary, nil
	}

	handle, err := o.dest.Resolve(ctx, start.Format(dateStampFormat))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve destination")
	}

	o.log.Infof("delivering %d files", len(files))
	for _, f := range files {
		outcome := domain.Delivery{Name: f.Name}
		if info, err := os.Stat(f.Path); err == nil {
			outcome.Size = info.Size()
		}
		if err := o.dest.Deliver(ctx, handle, f.Name, f.Path); err != nil {
			o.log.Warnf("delivery failed for %s: %v", f.Name, err)
			outcome.Error = err.Error()
		} else {
			o.log.Infof("delivered %s", f.Name)
			summary.Delivered++
		}
		summary.Deliveries = append(summary.Deliveries, outcome)
	}

	summary.CompletedAt = o.now().UTC()
	o.log.Infof("run complete: %d/%d files delivered", summary.Delivered, summary.Acquired)
	return summary, nil
}

// discover queries the platform for the candidate pool. Failures scoped to a
// single creator are logged and skipped; a failure of the initial live-
// channel query is fatal.
func (o *Orchestrator) discover(ctx context.Context, start time.Time) ([]domain.Clip, error) {
	var pool []domain.Clip

	if o.cfg.TopLiveMode() {
		creators, err := o.source.TopCreators(ctx, config.TopCreatorCount)
		if err != nil {
			return nil, errors.Wrap(err, "failed to discover live creators")
		}
		o.log.Infof("found %d live creators", len(creators))
		for _, creator := range creators {
			clips, err := o.source.RecentClips(ctx, creator, config.RecentClipCount)
			if err != nil {
				o.log.Warnf("skipping %s: %v", creator.DisplayName, err)
				continue
			}
			pool = append(pool, clips...)
		}
		return pool, nil
	}

	since := start.Add(-clipWindow)
	for _, login := range o.cfg.Channels {
		creator, err := o.source.ResolveCreator(ctx, login)
		if err != nil {
			o.log.Warnf("skipping %s: %v", login, err)
			continue
		}
		clips, err := o.source.ClipsSince(ctx, creator, since, config.WindowClipCount)
		if err != nil {
			o.log.Warnf("skipping %s: %v", creator.DisplayName, err)
			continue
		}
		pool = append(pool, clips...)
	}
	return pool, nil
}

// acquire fetches every selected clip and every configured supplementary
// slice into dir. Individual fetch failures are logged and the item dropped;
// every returned file exists on disk.
func (o *Orchestrator) acquire(ctx context.Context, clips []domain.Clip, dir string) []domain.AcquiredFile {
	var files []domain.AcquiredFile

	for _, clip := range clips {
		name := fmt.Sprintf("%s-%s.mp4", clip.CreatorName, clip.ID)
		out := filepath.Join(dir, name)
		if err := o.fetcher.Fetch(ctx, clip.URL, out); err != nil {
			o.log.Warnf("download failed for clip %s: %v", clip.ID, err)
			continue
		}
		files = append(files, domain.AcquiredFile{Path: out, Name: name})
	}

	for _, src := range o.cfg.Supplementary {
		start := minSliceOffset + o.rng.Intn(maxSliceOffset-minSliceOffset+1)
		name := fmt.Sprintf("YT-%d.mp4", 100000+o.rng.Intn(900000))
		out := filepath.Join(dir, name)
		if err := o.fetcher.FetchSection(ctx, src, out, start, sliceDuration); err != nil {
			o.log.Warnf("slice failed for %s: %v", src, err)
			continue
		}
		files = append(files, domain.AcquiredFile{Path: out, Name: name})
	}

	return files
}
