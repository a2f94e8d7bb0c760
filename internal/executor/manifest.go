package executor

import (
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manifest describes one backup run. It is written beside the snapshot files
// so a restore target can be checked against what the backup actually wrote.
type Manifest struct {
	RunID     string          `yaml:"run_id"`
	CreatedAt time.Time       `yaml:"created_at"`
	Database  string          `yaml:"database,omitempty"`
	Tables    []ManifestTable `yaml:"tables"`
}

// ManifestTable records one table's snapshot in the manifest
type ManifestTable struct {
	Name string `yaml:"name"`
	Rows int    `yaml:"rows"`
	File string `yaml:"file"`
}

// NewManifest creates a manifest for a backup run starting now
func NewManifest(database string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Database:  database,
	}
}

// Add records one table's snapshot
func (m *Manifest) Add(table, file string, rows int) {
	m.Tables = append(m.Tables, ManifestTable{
		Name: table,
		Rows: rows,
		File: file,
	})
}

// Encode serializes the manifest to YAML
func (m *Manifest) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}

// DecodeManifest parses a YAML manifest
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
