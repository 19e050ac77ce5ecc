package migrator

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ghuser/pantry/pkg/config"
	"github.com/ghuser/pantry/pkg/logger"
)

func TestGooseLogger_FormatsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	g := gooseLogger{log: logger.NewWithWriter(&config.Config{LogLevel: "info"}, &buf)}

	g.Printf("OK   %s (%d ms)", "00001_init.sql", 12)
	if !strings.Contains(buf.String(), "OK   00001_init.sql (12 ms)") {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

// Integration test: skipped unless TEST_DATABASE_URL is set.
func TestRunMigrations_SeparateVersionTable(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	files := fstest.MapFS{
		"00001_scratch.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE IF NOT EXISTS migrator_scratch (id int);
-- +goose Down
DROP TABLE IF EXISTS migrator_scratch;
`)},
	}

	log := logger.New(&config.Config{LogLevel: "error"})
	if err := RunMigrations(context.Background(), url, "scratch_goose_db_version", files, log); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// applying twice is a no-op
	if err := RunMigrations(context.Background(), url, "scratch_goose_db_version", files, log); err != nil {
		t.Fatalf("second run: %v", err)
	}
}
