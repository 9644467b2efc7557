package library

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipforge/clipforge-agent/internal/clip"
)

type Repository interface {
	CreateClip(ctx context.Context, c *clip.Clip) error
	GetClip(ctx context.Context, id string) (*clip.Clip, error)
	ListClips(ctx context.Context) ([]*clip.Clip, error)
	UpdateClipTrim(ctx context.Context, id string, trimStart, trimEnd float64) error
	UpdateClipThumbnail(ctx context.Context, id, thumbnail string) error
	DeleteClip(ctx context.Context, id string) error
	CountClips(ctx context.Context) (int, error)

	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]*Job, error)
	ListQueuedJobs(ctx context.Context) ([]*Job, error)
	UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error
	UpdateJobProgress(ctx context.Context, id string, progress int) error
	UpdateJobOutput(ctx context.Context, id, outputPath string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const clipColumns = `id, name, path, duration, width, height, frame_rate, bitrate, codec,
	has_audio, audio_codec, audio_channels, audio_sample_rate, trim_start, trim_end, thumbnail, created_at`

func (r *SQLiteRepository) CreateClip(ctx context.Context, c *clip.Clip) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clips (`+clipColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Path, c.Duration, c.Width, c.Height, c.FrameRate, c.Bitrate, c.Codec,
		boolToInt(c.HasAudio), c.AudioCodec, c.AudioChannels, c.AudioSampleRate,
		c.TrimStart, c.TrimEnd, c.Thumbnail, c.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetClip(ctx context.Context, id string) (*clip.Clip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clipColumns+` FROM clips WHERE id = ?`, id)
	return scanClip(row)
}

func scanClip(row *sql.Row) (*clip.Clip, error) {
	var c clip.Clip
	var hasAudio int
	var createdAt string

	err := row.Scan(&c.ID, &c.Name, &c.Path, &c.Duration, &c.Width, &c.Height, &c.FrameRate,
		&c.Bitrate, &c.Codec, &hasAudio, &c.AudioCodec, &c.AudioChannels, &c.AudioSampleRate,
		&c.TrimStart, &c.TrimEnd, &c.Thumbnail, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.HasAudio = hasAudio == 1
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

func (r *SQLiteRepository) ListClips(ctx context.Context) ([]*clip.Clip, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clipColumns+` FROM clips ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []*clip.Clip
	for rows.Next() {
		var c clip.Clip
		var hasAudio int
		var createdAt string

		if err := rows.Scan(&c.ID, &c.Name, &c.Path, &c.Duration, &c.Width, &c.Height, &c.FrameRate,
			&c.Bitrate, &c.Codec, &hasAudio, &c.AudioCodec, &c.AudioChannels, &c.AudioSampleRate,
			&c.TrimStart, &c.TrimEnd, &c.Thumbnail, &createdAt); err != nil {
			return nil, err
		}
		c.HasAudio = hasAudio == 1
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		clips = append(clips, &c)
	}
	return clips, rows.Err()
}

func (r *SQLiteRepository) UpdateClipTrim(ctx context.Context, id string, trimStart, trimEnd float64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE clips SET trim_start = ?, trim_end = ? WHERE id = ?", trimStart, trimEnd, id)
	return err
}

func (r *SQLiteRepository) UpdateClipThumbnail(ctx context.Context, id, thumbnail string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE clips SET thumbnail = ? WHERE id = ?", thumbnail, id)
	return err
}

func (r *SQLiteRepository) DeleteClip(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM clips WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) CountClips(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clips").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) CreateJob(ctx context.Context, j *Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, type, clip_id, status, progress, output_path, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, j.ID, j.Type, nullString(j.ClipID), j.Status, j.Progress, j.OutputPath, j.Error,
		j.CreatedAt.Format(time.RFC3339), j.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetJob(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, clip_id, status, progress, output_path, error, created_at, updated_at
		FROM jobs WHERE id = ?
	`, id)

	var j Job
	var clipID sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&j.ID, &j.Type, &clipID, &j.Status, &j.Progress, &j.OutputPath, &j.Error, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	j.ClipID = clipID.String
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &j, nil
}

func (r *SQLiteRepository) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, clip_id, status, progress, output_path, error, created_at, updated_at
		FROM jobs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJobs(rows)
}

func (r *SQLiteRepository) ListQueuedJobs(ctx context.Context) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, clip_id, status, progress, output_path, error, created_at, updated_at
		FROM jobs WHERE status = 'queued' ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJobs(rows)
}

func scanJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		var j Job
		var clipID sql.NullString
		var createdAt, updatedAt string

		if err := rows.Scan(&j.ID, &j.Type, &clipID, &j.Status, &j.Progress, &j.OutputPath, &j.Error, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		j.ClipID = clipID.String
		j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

func (r *SQLiteRepository) UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error = ?, updated_at = datetime('now') WHERE id = ?
	`, status, errorMsg, id)
	return err
}

func (r *SQLiteRepository) UpdateJobProgress(ctx context.Context, id string, progress int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET progress = ?, updated_at = datetime('now') WHERE id = ?
	`, progress, id)
	return err
}

func (r *SQLiteRepository) UpdateJobOutput(ctx context.Context, id, outputPath string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET output_path = ?, updated_at = datetime('now') WHERE id = ?
	`, outputPath, id)
	return err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
