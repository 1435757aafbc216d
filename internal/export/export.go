package export

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cinetag/internal/cinematic"
	"cinetag/internal/config"
	"cinetag/internal/history"
	"cinetag/internal/logging"
	"cinetag/internal/quatext"
	"cinetag/internal/services"
	"cinetag/internal/snapshot"
	"cinetag/internal/tag"
	"cinetag/internal/tagsync"
)

// Options override configuration for one invocation.
type Options struct {
	// Engine overrides both the snapshot and the configured schema.
	Engine   string
	WriteQua bool
	Backup   bool
	// DryRun builds and synchronises everything but commits nothing.
	DryRun bool
}

// Result describes one export run.
type Result struct {
	RunID    string
	Snapshot string
	Scene    string
	Schema   cinematic.Schema
	Paths    cinematic.Paths
	Summary  tagsync.Summary
	DryRun   bool
	QuaFile  bool
	Err      error
	Started  time.Time
	Finished time.Time
}

// Outcome returns the history outcome of the run.
func (r Result) Outcome() string {
	return services.Outcome(r.Err)
}

// Exporter runs exports against one configuration.
type Exporter struct {
	cfg     *config.Config
	logger  *slog.Logger
	history *history.Store
	now     func() time.Time
	newID   func() string
}

// New returns an exporter. store may be nil to skip history.
func New(cfg *config.Config, logger *slog.Logger, store *history.Store) *Exporter {
	return &Exporter{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "export"),
		history: store,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Export runs a single snapshot. The returned Result is populated as far as
// the run got, also on error.
func (e *Exporter) Export(ctx context.Context, snapshotPath string, opts Options) (Result, error) {
	res := Result{
		RunID:    e.newID(),
		Snapshot: snapshotPath,
		DryRun:   opts.DryRun,
		Started:  e.now(),
	}
	ctx = logging.WithRunID(ctx, res.RunID)

	err := e.run(ctx, &res, opts)
	res.Err = err
	res.Finished = e.now()

	if res.Scene != "" {
		ctx = logging.WithScene(ctx, res.Scene)
	}
	logger := logging.WithContext(ctx, e.logger)
	if err != nil {
		logging.ErrorWithContext(logger, "export failed", "export_failed",
			logging.String("snapshot", snapshotPath),
			logging.String("outcome", res.Outcome()),
			logging.String(logging.FieldErrorHint, errorHint(err)),
			logging.Error(err),
		)
	} else {
		logger.Info("export complete",
			logging.String(logging.FieldEventType, "export_complete"),
			logging.String("schema", res.Schema.String()),
			logging.String(logging.FieldTag, res.Paths.Tag),
			logging.Int("shots", res.Summary.Shots),
			logging.Int("frames", res.Summary.Frames),
			logging.Int("actors", res.Summary.Actors),
			logging.Int("actors_added", res.Summary.Added),
			logging.Int("actors_removed", res.Summary.Removed),
			logging.Bool("dry_run", res.DryRun),
			logging.Duration("elapsed", res.Finished.Sub(res.Started)),
		)
	}

	e.record(ctx, logger, res)
	return res, err
}

func (e *Exporter) run(ctx context.Context, res *Result, opts Options) error {
	snap, err := snapshot.Load(res.Snapshot)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return err
		}
		return services.Wrap(services.ErrNotFound, "export", "load snapshot", "", err)
	}
	res.Scene = snap.SceneName()
	ctx = logging.WithScene(ctx, res.Scene)
	logger := logging.WithContext(ctx, e.logger)

	schema, err := e.schemaFor(snap, opts)
	if err != nil {
		return err
	}
	res.Schema = schema

	scene, err := cinematic.Build(snap, cinematic.BuildOptions{
		TagsDir: e.cfg.Paths.TagsDir,
		Schema:  schema,
		CoC:     e.cfg.Export.CircleOfConfusion,
	})
	if err != nil {
		return err
	}
	res.Scene = scene.Name
	res.Paths = scene.Paths
	logger.Debug("scene built",
		logging.String(logging.FieldEventType, "scene_built"),
		logging.Int("shots", len(scene.Shots)),
		logging.Int("frames", scene.FrameCount()),
		logging.Int("actors", len(scene.Actors)),
	)
	for i, shot := range scene.Shots {
		if shot.FrameCount() == 0 {
			logging.WarnWithContext(logger, "shot has no frames", "shot_skipped",
				logging.Int(logging.FieldShot, i),
				logging.String(logging.FieldImpact, "shot keeps its previous frames in the tag"),
				logging.String(logging.FieldErrorHint, "key the camera inside the shot range"),
			)
		}
	}

	files, err := openTargets(scene)
	if err != nil {
		return err
	}
	defer files.close(logger)

	summary, err := tagsync.Sync(ctx, scene, files.targets(), tag.NewIndex(e.cfg.Paths.TagsDir))
	if err != nil {
		return err
	}
	res.Summary = summary

	// Cancellation is honoured up to here; commits are never interrupted.
	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.DryRun {
		logger.Info("dry run, tags not written", logging.String(logging.FieldEventType, "dry_run"))
		return nil
	}

	if opts.Backup || e.cfg.Export.Backup {
		if err := files.backup(); err != nil {
			return services.Wrap(services.ErrTransient, "export", "backup", "", err)
		}
	}
	if err := files.commit(); err != nil {
		return services.Wrap(services.ErrTransient, "export", "commit", "", err)
	}

	if opts.WriteQua || e.cfg.Export.WriteQua {
		if err := quatext.WriteFile(scene.Paths.Qua, scene); err != nil {
			return services.Wrap(services.ErrTransient, "export", "write qua", "", err)
		}
		res.QuaFile = true
	}
	return nil
}

func (e *Exporter) schemaFor(snap *snapshot.Snapshot, opts Options) (cinematic.Schema, error) {
	engine := e.cfg.Export.Engine
	switch {
	case opts.Engine != "":
		engine = opts.Engine
	case snap.Engine != "":
		engine = snap.Engine
	}
	return cinematic.ParseSchema(engine)
}

func (e *Exporter) record(ctx context.Context, logger *slog.Logger, res Result) {
	if e.history == nil || res.Scene == "" {
		return
	}
	rec := history.Record{
		RunID:         res.RunID,
		Scene:         res.Scene,
		SnapshotPath:  res.Snapshot,
		Engine:        res.Schema.String(),
		TagPath:       res.Paths.Tag,
		DataTagPath:   res.Paths.DataTag,
		ShotCount:     res.Summary.Shots,
		FrameCount:    res.Summary.Frames,
		ActorCount:    res.Summary.Actors,
		ActorsAdded:   res.Summary.Added,
		ActorsRemoved: res.Summary.Removed,
		DryRun:        res.DryRun,
		Outcome:       res.Outcome(),
		StartedAt:     res.Started,
		FinishedAt:    res.Finished,
	}
	if res.QuaFile {
		rec.QuaPath = res.Paths.Qua
	}
	if res.Err != nil {
		rec.ErrorMessage = res.Err.Error()
	}
	// Recording must not fail because the export itself was canceled.
	if _, err := e.history.Add(context.WithoutCancel(ctx), rec); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.String(logging.FieldImpact, "export is not listed in history"),
			logging.Error(err),
		)
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, tag.ErrLocked):
		return "another export holds the tag; wait for it or remove a stale .lock file"
	case errors.Is(err, tag.ErrUnresolvedReference):
		return "check the object's tag paths against the tags root"
	case errors.Is(err, cinematic.ErrDuplicateActor):
		return "rename objects so their names stay unique after sanitising"
	case errors.Is(err, services.ErrValidation):
		return "fix the snapshot and export again"
	case errors.Is(err, context.Canceled):
		return "export was canceled before any tag was written"
	default:
		return "check logs for details"
	}
}
