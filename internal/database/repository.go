package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/contactscout/pkg/models"
)

// ErrRunNotFound is returned when no run has the requested id
var ErrRunNotFound = errors.New("run not found")

// Run operations

// CreateRun inserts a running run and assigns it a new uuid
func (s *Store) CreateRun(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = models.RunStatusRunning
	}

	query := `INSERT INTO runs (id, keyword, query, engine, status, profile_count, started_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, run.ID, run.Keyword, run.Query, run.Engine,
		run.Status, run.ProfileCount, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun records the final status and profile count of a run
func (s *Store) FinishRun(ctx context.Context, id, status string, profileCount int) error {
	query := `UPDATE runs SET status=?, profile_count=?, finished_at=? WHERE id=?`
	result, err := s.db.ExecContext(ctx, query, status, profileCount, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}
	return nil
}

const runColumns = `id, keyword, query, engine, status, profile_count, started_at, finished_at`

func scanRun(row interface{ Scan(...any) error }) (*models.Run, error) {
	run := &models.Run{}
	var finishedAt sql.NullTime
	err := row.Scan(&run.ID, &run.Keyword, &run.Query, &run.Engine, &run.Status,
		&run.ProfileCount, &run.StartedAt, &finishedAt)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return run, nil
}

// GetRun loads a run by id. A unique id prefix is accepted as well, so the
// short ids shown by `runs list` work on the command line.
func (s *Store) GetRun(ctx context.Context, id string) (*models.Run, error) {
	if id == "" {
		return nil, ErrRunNotFound
	}

	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ? OR id LIKE ? || '%' ORDER BY id = ? DESC LIMIT 2`
	rows, err := s.db.QueryContext(ctx, query, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	runs := []*models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch {
	case len(runs) == 0:
		return nil, ErrRunNotFound
	case runs[0].ID == id || len(runs) == 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// GetAllRuns lists runs, newest first
func (s *Store) GetAllRuns(ctx context.Context) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and, through the foreign key, its profiles
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// Profile operations

// SaveProfiles stores the profiles of a run in one transaction. A profile URL
// already stored for the run is overwritten.
func (s *Store) SaveProfiles(ctx context.Context, runID string, profiles []*models.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO profiles (run_id, title, url, source, emails, phones, page, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, url) DO UPDATE SET
			title=excluded.title, source=excluded.source, emails=excluded.emails,
			phones=excluded.phones, page=excluded.page, scraped_at=excluded.scraped_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range profiles {
		emails, err := encodeList(p.Emails)
		if err != nil {
			return err
		}
		phones, err := encodeList(p.Phones)
		if err != nil {
			return err
		}
		if p.ScrapedAt.IsZero() {
			p.ScrapedAt = time.Now()
		}

		result, err := stmt.ExecContext(ctx, runID, p.Title, p.URL, p.Source, emails, phones, p.Page, p.ScrapedAt)
		if err != nil {
			return fmt.Errorf("failed to save profile %s: %w", p.URL, err)
		}
		if id, err := result.LastInsertId(); err == nil {
			p.ID = int(id)
		}
		p.RunID = runID
	}

	return tx.Commit()
}

// GetRunProfiles returns a run's profiles in the order they were found
func (s *Store) GetRunProfiles(ctx context.Context, runID string) ([]*models.Profile, error) {
	query := `SELECT id, run_id, title, url, source, emails, phones, page, scraped_at
			  FROM profiles WHERE run_id=? ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		p := &models.Profile{}
		var emails, phones string
		if err := rows.Scan(&p.ID, &p.RunID, &p.Title, &p.URL, &p.Source, &emails, &phones,
			&p.Page, &p.ScrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		if p.Emails, err = decodeList(emails); err != nil {
			return nil, err
		}
		if p.Phones, err = decodeList(phones); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// HasProfileURL reports whether any earlier run already stored url
func (s *Store) HasProfileURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE url=?)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up profile: %w", err)
	}
	return exists, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	values := []string{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return values, nil
}
