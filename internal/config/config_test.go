package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysql-table-backup/internal/apperrors"
	"mysql-table-backup/internal/storage"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.cfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfigFile(t, `[tables]
tables = users, orders

[backup]
host = source.example.com
user = reader
password = secret
port = 3307
database = shop

[restore]
host = dest.example.com
user = writer
password = hunter2
database = shop_staging
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"users", "orders"}, cfg.Tables)

	assert.Equal(t, "source.example.com", cfg.Source.Host)
	assert.Equal(t, 3307, cfg.Source.Port)
	assert.Equal(t, "reader", cfg.Source.Username)
	assert.Equal(t, "secret", cfg.Source.Password)
	assert.Equal(t, "shop", cfg.Source.Database)

	assert.Equal(t, "dest.example.com", cfg.Dest.Host)
	assert.Equal(t, 3306, cfg.Dest.Port, "unset port should fall back to the MySQL default")
	assert.Equal(t, "writer", cfg.Dest.Username)
	assert.Equal(t, "shop_staging", cfg.Dest.Database)

	assert.Equal(t, storage.ProviderLocal, cfg.Storage.Provider)
}

func TestLoadAppliesConnectionDefaults(t *testing.T) {
	path := writeConfigFile(t, `[tables]
tables = users

[backup]
user = reader
database = shop

[restore]
user = writer
database = shop
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Source.Host)
	assert.Equal(t, 3306, cfg.Source.Port)
	assert.Equal(t, "localhost", cfg.Dest.Host)
	assert.Equal(t, 3306, cfg.Dest.Port)
}

func TestLoadNewlineSeparatedTables(t *testing.T) {
	path := writeConfigFile(t, `[tables]
tables = users
    orders
    comments

[backup]
user = reader
database = shop

[restore]
user = writer
database = shop_staging
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"users", "orders", "comments"}, cfg.Tables)
}

func TestLoadStorageSection(t *testing.T) {
	path := writeConfigFile(t, `[tables]
tables = users

[storage]
provider = s3
bucket = backups
region = eu-west-1
access_key = AKIA
secret_key = shhh
prefix = nightly
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, storage.ProviderS3, cfg.Storage.Provider)
	assert.Equal(t, "backups", cfg.Storage.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
	assert.Equal(t, "AKIA", cfg.Storage.AccessKey)
	assert.Equal(t, "shhh", cfg.Storage.SecretKey)
	assert.Equal(t, "nightly", cfg.Storage.Prefix)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cfg"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.GetErrorType(err))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadDirectoryAsPath(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.GetErrorType(err))
	assert.Contains(t, err.Error(), "not a file")
}

func TestLoadEmptyTableList(t *testing.T) {
	path := writeConfigFile(t, `[tables]
tables =

[backup]
user = reader
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.GetErrorType(err))
	assert.Contains(t, err.Error(), "no tables")
}

func TestSplitTables(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		expected []string
	}{
		{
			name:     "comma separated",
			entry:    "users, orders,items",
			expected: []string{"users", "orders", "items"},
		},
		{
			name:     "newline separated",
			entry:    "users\norders\nitems",
			expected: []string{"users", "orders", "items"},
		},
		{
			name:     "mixed separators with blanks",
			entry:    "users,\n ,orders\n\nitems,",
			expected: []string{"users", "orders", "items"},
		},
		{
			name:     "empty entry",
			entry:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitTables(tt.entry))
		})
	}
}
