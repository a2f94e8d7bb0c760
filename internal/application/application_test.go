package application

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mysql-table-backup/internal/apperrors"
)

func writeRunConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.cfg")
	content := `[tables]
tables = users

[backup]
user = reader
database = shop

[restore]
user = writer
database = shop_staging
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestNewApplication(t *testing.T) {
	dir := t.TempDir()
	configPath := writeRunConfig(t, dir)

	app, err := NewApplication(Config{
		ConfigFile: configPath,
		Directory:  dir,
		Backup:     true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if app.runConfig == nil || len(app.runConfig.Tables) != 1 {
		t.Error("Expected the run configuration to be loaded")
	}
	if app.store == nil {
		t.Error("Expected a snapshot store to be created")
	}
}

func TestNewApplicationMissingConfigFile(t *testing.T) {
	dir := t.TempDir()

	_, err := NewApplication(Config{
		ConfigFile: filepath.Join(dir, "absent.cfg"),
		Directory:  dir,
		Backup:     true,
	})
	if err == nil {
		t.Fatal("Expected error for missing configuration file")
	}
	if apperrors.GetErrorType(err) != apperrors.ErrorTypeConfiguration {
		t.Errorf("Expected configuration error, got %s", apperrors.GetErrorType(err))
	}
}

func TestNewApplicationMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	configPath := writeRunConfig(t, dir)

	_, err := NewApplication(Config{
		ConfigFile: configPath,
		Directory:  filepath.Join(dir, "absent"),
		Restore:    true,
	})
	if err == nil {
		t.Fatal("Expected error for missing snapshot directory")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected missing directory message, got %v", err)
	}
}

func TestNewApplicationLogLevelFromFlags(t *testing.T) {
	dir := t.TempDir()
	configPath := writeRunConfig(t, dir)

	tests := []struct {
		name     string
		verbose  bool
		quiet    bool
		expected string
	}{
		{"default is normal", false, false, "normal"},
		{"verbose flag", true, false, "verbose"},
		{"quiet flag", false, true, "quiet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := NewApplication(Config{
				ConfigFile: configPath,
				Directory:  dir,
				Backup:     true,
				Verbose:    tt.verbose,
				Quiet:      tt.quiet,
			})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(app.logger.GetLevel()) != tt.expected {
				t.Errorf("Expected level %s, got %s", tt.expected, app.logger.GetLevel())
			}
		})
	}
}
