package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"mysql-table-backup/internal/apperrors"
	"mysql-table-backup/internal/database"
	"mysql-table-backup/internal/storage"
)

// Config is the run configuration: the tables to process and the two
// connection groups. The table list order is preserved from the file; tables
// are processed in that order.
type Config struct {
	Tables  []string
	Source  database.Config
	Dest    database.Config
	Storage storage.Config
}

// Load reads the INI run configuration. Recognized sections: [tables] with a
// "tables" key (comma- or newline-separated names), [backup] and [restore]
// connection groups (host, user, password, port, database), and an optional
// [storage] group (provider, bucket, region, access_key, secret_key, prefix).
// A missing or invalid file is a fatal configuration error.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("the configuration file %s does not exist", path), err)
	}
	if err != nil {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("cannot read the configuration file %s", path), err)
	}
	if info.IsDir() {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("the configuration file %s is not a file", path), nil)
	}

	// The tables entry may continue over indented lines, configparser-style.
	v := viper.NewWithOptions(viper.IniLoadOptions(ini.LoadOptions{
		AllowPythonMultilineValues: true,
	}))
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("failed to parse the configuration file %s", path), err)
	}

	tables := splitTables(v.GetString("tables.tables"))
	if len(tables) == 0 {
		return nil, apperrors.NewConfigurationError(
			"the configuration file defines no tables ([tables] section)", nil)
	}

	cfg := &Config{
		Tables:  tables,
		Source:  readConnection(v, "backup"),
		Dest:    readConnection(v, "restore"),
		Storage: readStorage(v),
	}

	return cfg, nil
}

// readConnection builds connection settings from one INI section, applying the
// default host and port for unset keys.
func readConnection(v *viper.Viper, section string) database.Config {
	cfg := database.Config{
		Host:     v.GetString(section + ".host"),
		Port:     v.GetInt(section + ".port"),
		Username: v.GetString(section + ".user"),
		Password: v.GetString(section + ".password"),
		Database: v.GetString(section + ".database"),
	}
	cfg.SetDefaults()
	return cfg
}

func readStorage(v *viper.Viper) storage.Config {
	cfg := storage.Config{
		Provider:  v.GetString("storage.provider"),
		Bucket:    v.GetString("storage.bucket"),
		Region:    v.GetString("storage.region"),
		AccessKey: v.GetString("storage.access_key"),
		SecretKey: v.GetString("storage.secret_key"),
		Prefix:    v.GetString("storage.prefix"),
	}
	if cfg.Provider == "" {
		cfg.Provider = storage.ProviderLocal
	}
	return cfg
}

// splitTables splits the tables entry on newlines and commas, trimming
// whitespace and dropping empty entries while preserving order.
func splitTables(entry string) []string {
	var tables []string
	for _, line := range strings.Split(entry, "\n") {
		for _, name := range strings.Split(line, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				tables = append(tables, name)
			}
		}
	}
	return tables
}
