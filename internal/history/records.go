package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = `id, run_id, scene, snapshot_path, engine, tag_path, data_tag_path, qua_path,
	shot_count, frame_count, actor_count, actors_added, actors_removed, dry_run,
	outcome, error_message, started_at, finished_at`

// Record is one export run.
type Record struct {
	ID            int64
	RunID         string
	Scene         string
	SnapshotPath  string
	Engine        string
	TagPath       string
	DataTagPath   string
	QuaPath       string
	ShotCount     int
	FrameCount    int
	ActorCount    int
	ActorsAdded   int
	ActorsRemoved int
	DryRun        bool
	Outcome       string
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration returns how long the run took.
func (r Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Add inserts a record and returns it with its ID set.
func (s *Store) Add(ctx context.Context, rec Record) (Record, error) {
	if rec.RunID == "" || rec.Scene == "" || rec.Outcome == "" {
		return Record{}, errors.New("history record needs run id, scene and outcome")
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = rec.StartedAt
	}

	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, `INSERT INTO exports (
			run_id, scene, snapshot_path, engine, tag_path, data_tag_path, qua_path,
			shot_count, frame_count, actor_count, actors_added, actors_removed, dry_run,
			outcome, error_message, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, rec.Scene, rec.SnapshotPath, rec.Engine,
			nullString(rec.TagPath), nullString(rec.DataTagPath), nullString(rec.QuaPath),
			rec.ShotCount, rec.FrameCount, rec.ActorCount, rec.ActorsAdded, rec.ActorsRemoved, boolToInt(rec.DryRun),
			rec.Outcome, nullString(rec.ErrorMessage),
			rec.StartedAt.UTC().Format(timeLayout), rec.FinishedAt.UTC().Format(timeLayout),
		)
		return execErr
	})
	if err != nil {
		return Record{}, fmt.Errorf("insert export record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("read export record id: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Scene   string
	Outcome string
	Limit   int
}

// List returns records newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := "SELECT " + recordColumns + " FROM exports WHERE 1=1"
	var args []any
	if filter.Scene != "" {
		query += " AND scene = ?"
		args = append(args, filter.Scene)
	}
	if filter.Outcome != "" {
		query += " AND outcome = ?"
		args = append(args, filter.Outcome)
	}
	query += " ORDER BY started_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query export history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes records that finished before cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, "DELETE FROM exports WHERE finished_at < ?", cutoff.UTC().Format(timeLayout))
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("prune export history: %w", err)
	}
	return res.RowsAffected()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec                       Record
		tagPath, dataTag, quaPath sql.NullString
		errMsg                    sql.NullString
		dryRun                    int
		startedAt, finishedAt     string
	)
	if err := rows.Scan(
		&rec.ID, &rec.RunID, &rec.Scene, &rec.SnapshotPath, &rec.Engine, &tagPath, &dataTag, &quaPath,
		&rec.ShotCount, &rec.FrameCount, &rec.ActorCount, &rec.ActorsAdded, &rec.ActorsRemoved, &dryRun,
		&rec.Outcome, &errMsg, &startedAt, &finishedAt,
	); err != nil {
		return Record{}, fmt.Errorf("scan export record: %w", err)
	}
	rec.TagPath = tagPath.String
	rec.DataTagPath = dataTag.String
	rec.QuaPath = quaPath.String
	rec.ErrorMessage = errMsg.String
	rec.DryRun = dryRun != 0
	var err error
	if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return Record{}, fmt.Errorf("parse started_at %q: %w", startedAt, err)
	}
	if rec.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
		return Record{}, fmt.Errorf("parse finished_at %q: %w", finishedAt, err)
	}
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
