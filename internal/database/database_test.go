package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/khrees2412/contactscout/pkg/models"
	_ "github.com/mattn/go-sqlite3"
)

// createTestStore creates a store on a temporary database
func createTestStore(tb testing.TB) *Store {
	tb.Helper()
	dbPath := filepath.Join(tb.TempDir(), "test.db")

	// Open with pragmas
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	// Run migrations
	if err := RunMigrations(db); err != nil {
		tb.Fatalf("failed to run migrations: %v", err)
	}

	tb.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func createTestRun(t *testing.T, s *Store, keyword string) *models.Run {
	t.Helper()
	run := &models.Run{Keyword: keyword, Query: "q " + keyword, Engine: "google"}
	if err := s.CreateRun(context.Background(), run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	return run
}

// TestCreateRun tests run creation and lookup
func TestCreateRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(t, s, "data scientist")
	if run.ID == "" {
		t.Fatal("run ID not set after creation")
	}
	if run.Status != models.RunStatusRunning {
		t.Errorf("expected status running, got %s", run.Status)
	}

	retrieved, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if retrieved.Keyword != "data scientist" || retrieved.Engine != "google" {
		t.Errorf("retrieved run doesn't match: %+v", retrieved)
	}
	if retrieved.FinishedAt != nil {
		t.Error("running run should have no finish time")
	}

	// Lookup by prefix
	byPrefix, err := s.GetRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("failed to get run by prefix: %v", err)
	}
	if byPrefix.ID != run.ID {
		t.Errorf("prefix lookup returned %s, want %s", byPrefix.ID, run.ID)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := createTestStore(t)

	for _, id := range []string{"", "missing"} {
		if _, err := s.GetRun(context.Background(), id); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("GetRun(%q) error = %v, want ErrRunNotFound", id, err)
		}
	}
}

func TestFinishRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(t, s, "hr")

	if err := s.FinishRun(ctx, run.ID, models.RunStatusCompleted, 4); err != nil {
		t.Fatalf("failed to finish run: %v", err)
	}

	retrieved, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if retrieved.Status != models.RunStatusCompleted || retrieved.ProfileCount != 4 {
		t.Errorf("unexpected run after finish: %+v", retrieved)
	}
	if retrieved.FinishedAt == nil {
		t.Error("finished run should have a finish time")
	}

	if err := s.FinishRun(ctx, "missing", models.RunStatusFailed, 0); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}

	// Status is checked by the schema
	if err := s.FinishRun(ctx, run.ID, "exploded", 0); err == nil {
		t.Error("should have rejected unknown status")
	}
}

// TestSaveProfiles tests the JSON list round trip and upsert on (run, url)
func TestSaveProfiles(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(t, s, "devops")

	profiles := []*models.Profile{
		{
			Title:  "Rahul Sharma",
			URL:    "https://www.linkedin.com/in/rahul",
			Source: "LinkedIn",
			Emails: []string{"rahul@gmail.com"},
			Phones: []string{"+91 98765 12345"},
			Page:   1,
		},
		{
			Title:  "Asha Rao",
			URL:    "https://www.linkedin.com/in/asha",
			Source: "LinkedIn",
			Page:   2,
		},
	}
	if err := s.SaveProfiles(ctx, run.ID, profiles); err != nil {
		t.Fatalf("failed to save profiles: %v", err)
	}

	got, err := s.GetRunProfiles(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get profiles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(got))
	}
	if got[0].Title != "Rahul Sharma" || len(got[0].Emails) != 1 || got[0].Phones[0] != "+91 98765 12345" {
		t.Errorf("first profile doesn't match: %+v", got[0])
	}
	if got[1].Emails == nil || len(got[1].Emails) != 0 {
		t.Errorf("expected empty non-nil email list, got %#v", got[1].Emails)
	}
	if got[1].ScrapedAt.IsZero() {
		t.Error("scraped_at not set")
	}

	// Saving the same URL again updates instead of duplicating
	update := []*models.Profile{{Title: "Asha Rao", URL: "https://www.linkedin.com/in/asha", Source: "LinkedIn",
		Emails: []string{"asha@yahoo.com"}, Page: 2}}
	if err := s.SaveProfiles(ctx, run.ID, update); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}
	got, _ = s.GetRunProfiles(ctx, run.ID)
	if len(got) != 2 || len(got[1].Emails) != 1 {
		t.Errorf("upsert failed: %+v", got)
	}
}

func TestHasProfileURL(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(t, s, "go")

	err := s.SaveProfiles(ctx, run.ID, []*models.Profile{{URL: "https://www.linkedin.com/in/seen", Source: "LinkedIn"}})
	if err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}

	seen, err := s.HasProfileURL(ctx, "https://www.linkedin.com/in/seen")
	if err != nil || !seen {
		t.Errorf("expected seen profile, got %v (%v)", seen, err)
	}
	seen, err = s.HasProfileURL(ctx, "https://www.linkedin.com/in/new")
	if err != nil || seen {
		t.Errorf("expected unseen profile, got %v (%v)", seen, err)
	}
}

// TestDeleteRunCascade tests that profiles are deleted with their run
func TestDeleteRunCascade(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(t, s, "sales")

	if err := s.SaveProfiles(ctx, run.ID, []*models.Profile{{URL: "https://www.linkedin.com/in/x", Source: "LinkedIn"}}); err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}

	if err := s.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}

	profiles, err := s.GetRunProfiles(ctx, run.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 0 {
		t.Error("profiles should be deleted when run is deleted")
	}

	if err := s.DeleteRun(ctx, run.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound on second delete, got %v", err)
	}
}

// TestGetAllRuns tests listing runs newest first
func TestGetAllRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 3; i++ {
		run := &models.Run{
			Keyword:   fmt.Sprintf("keyword %d", i),
			Query:     "q",
			Engine:    "bing",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("failed to create run %d: %v", i, err)
		}
	}

	runs, err := s.GetAllRuns(ctx)
	if err != nil {
		t.Fatalf("failed to get all runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Keyword != "keyword 3" {
		t.Errorf("expected newest run first, got %s", runs[0].Keyword)
	}
}

// TestForeignKeyConstraint verifies foreign keys are enabled
func TestForeignKeyConstraint(t *testing.T) {
	s := createTestStore(t)

	err := s.SaveProfiles(context.Background(), "no-such-run",
		[]*models.Profile{{URL: "https://www.linkedin.com/in/orphan", Source: "LinkedIn"}})
	if err == nil {
		t.Error("should have failed due to foreign key constraint")
	}
}

// BenchmarkSaveProfiles benchmarks batched profile inserts
func BenchmarkSaveProfiles(b *testing.B) {
	s := createTestStore(b)
	ctx := context.Background()
	run := &models.Run{Keyword: "bench", Query: "q", Engine: "google"}
	if err := s.CreateRun(ctx, run); err != nil {
		b.Fatalf("failed to create run: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := &models.Profile{URL: fmt.Sprintf("https://www.linkedin.com/in/p%d", i), Source: "LinkedIn"}
		if err := s.SaveProfiles(ctx, run.ID, []*models.Profile{p}); err != nil {
			b.Fatal(err)
		}
	}
}
