// Package watch runs scheduled sweeps over maze image directories and
// ingests new levels into the library.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/vdbe/maze-lvl-maker/internal/announce"
	"github.com/vdbe/maze-lvl-maker/internal/library"
	ilog "github.com/vdbe/maze-lvl-maker/internal/log"
	"github.com/vdbe/maze-lvl-maker/internal/models"
	"github.com/vdbe/maze-lvl-maker/internal/scan"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// ValidateSchedule checks that expr is a valid 5-field cron expression.
func ValidateSchedule(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("watch: parse schedule %q: %w", expr, err)
	}
	return nil
}

// imageExts are the file extensions treated as maze images during a sweep.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Watcher sweeps directories for maze images and stores the levels they
// encode. Images whose payload is already in the library are skipped.
type Watcher struct {
	db        *gorm.DB
	dirs      []string
	schedule  string
	announcer announce.Announcer
}

// Opts holds the dependencies for a Watcher. Schedule is only needed for
// Run; Announcer may be nil to disable announcements.
type Opts struct {
	DB        *gorm.DB
	Dirs      []string
	Schedule  string
	Announcer announce.Announcer
}

// New creates a Watcher.
func New(opts Opts) (*Watcher, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("watch: db is required")
	}
	if len(opts.Dirs) == 0 {
		return nil, fmt.Errorf("watch: at least one dir is required")
	}
	if opts.Schedule != "" {
		if err := ValidateSchedule(opts.Schedule); err != nil {
			return nil, err
		}
	}
	return &Watcher{
		db:        opts.DB,
		dirs:      opts.Dirs,
		schedule:  opts.Schedule,
		announcer: opts.Announcer,
	}, nil
}

// FindImages returns every maze image file under dir, in lexical order.
func FindImages(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if imageExts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("watch: walk %s: %w", dir, err)
	}
	return paths, nil
}

// SweepDir ingests every maze image under dir and records a ScanRun.
// Images that fail to scan or validate are counted as failed and the
// sweep moves on; images already in the library count as skipped.
func (w *Watcher) SweepDir(ctx context.Context, dir string) (*models.ScanRun, error) {
	log := ilog.FromContext(ctx)
	run := &models.ScanRun{Dir: dir, StartedAt: time.Now()}

	paths, err := FindImages(dir)
	if err != nil {
		return nil, err
	}
	run.Found = len(paths)

	for _, path := range paths {
		rec, created, err := w.ingest(ctx, path)
		switch {
		case err != nil:
			run.Failed++
			log.Warn("ingest failed", "path", path, "err", err)
		case !created:
			run.Skipped++
			log.Debug("already in library", "path", path, "id", rec.ID)
		default:
			run.Ingested++
			log.Info("level ingested", "path", path, "id", rec.ID, "name", rec.Name)
			w.announceLevel(ctx, rec)
		}
	}

	run.FinishedAt = time.Now()
	if err := library.RecordScanRun(w.db, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Sweep runs one pass over every configured dir.
func (w *Watcher) Sweep(ctx context.Context) ([]models.ScanRun, error) {
	runs := make([]models.ScanRun, 0, len(w.dirs))
	for _, dir := range w.dirs {
		run, err := w.SweepDir(ctx, dir)
		if err != nil {
			return runs, err
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

// Run sweeps on the cron schedule until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.schedule == "" {
		return fmt.Errorf("watch: schedule is required")
	}
	d := nextCronDuration(w.schedule)
	if d <= 0 {
		return fmt.Errorf("watch: parse schedule %q", w.schedule)
	}

	log := ilog.FromContext(ctx)
	log.Info("watch started", "dirs", strings.Join(w.dirs, ","), "schedule", w.schedule, "first_sweep_in", d.Round(time.Second))

	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil
		case <-timer.C:
			if _, err := w.Sweep(ctx); err != nil {
				log.Warn("sweep failed", "err", err)
			}
			if d := nextCronDuration(w.schedule); d > 0 {
				timer.Reset(d)
			}
		}
	}
}

// ingest scans one image into the library. The level name is the file
// name without its extension.
func (w *Watcher) ingest(ctx context.Context, path string) (*models.Level, bool, error) {
	lvl, err := scan.File(ctx, path)
	if err != nil {
		return nil, false, err
	}
	if err := lvl.Validate(); err != nil {
		return nil, false, err
	}
	return library.Save(w.db, library.SaveOpts{
		Name:   levelName(path),
		Source: path,
		Level:  lvl,
	})
}

func (w *Watcher) announceLevel(ctx context.Context, rec *models.Level) {
	if w.announcer == nil {
		return
	}
	ev := announce.Event{
		LevelID:     rec.ID,
		Name:        rec.Name,
		Width:       rec.Width,
		Height:      rec.Height,
		Walls:       rec.WallCount,
		Checkpoints: rec.CheckpointCount,
		Source:      rec.Source,
	}
	if err := w.announcer.Announce(ctx, ev); err != nil {
		ilog.FromContext(ctx).Warn("announce failed", "level", rec.ID, "err", err)
	}
}

func levelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
