package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/logging"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology/sqlite"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Data.Units)
	assert.Empty(t, cfg.Ontology.SQLite)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, "nerkit.yaml", `
log:
  level: debug
  format: console
data:
  units: /srv/units.yaml
ontology:
  yaml: /srv/feed.yaml
`)
	t.Setenv("NERKIT_LOG_FORMAT", "json")
	t.Setenv("NERKIT_ONTOLOGY_SQLITE", "/srv/ontology.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/srv/units.yaml", cfg.Data.Units)
	assert.Equal(t, "/srv/feed.yaml", cfg.Ontology.YAML)
	assert.Equal(t, "/srv/ontology.db", cfg.Ontology.SQLite)

	l := cfg.Loader()
	assert.Equal(t, "/srv/units.yaml", l.UnitsPath)
	assert.Equal(t, "/srv/ontology.db", l.OntologyDB)
	assert.Equal(t, logging.Config{Level: "debug", Format: "json"}, cfg.Logging())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"level", "log:\n  level: loud\n"},
		{"format", "log:\n  format: xml\n"},
		{"malformed", "log: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "nerkit.yaml", tt.content))
			assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig), "got %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load(context.Background())
	require.NoError(t, err)
	assert.Greater(t, comp.Units.Len(), 0)
	assert.Greater(t, comp.Domains.Len(), 0)
	assert.Greater(t, comp.Schemes.Len(), 0)
	assert.Equal(t, 0, comp.Ontology.Len())
}

func TestLoaderFiles(t *testing.T) {
	ctx := context.Background()
	units := writeFile(t, "units.yaml", "kinds: [length]\nunits:\n  - {symbol: m, name: meter, kind: length}\n")
	feed := writeFile(t, "feed.yaml", "records:\n  - term: Crystal Lake\n    kind: location\n")

	dbPath := filepath.Join(t.TempDir(), "ontology.db")
	db, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Import(ctx, []ontology.Record{{Term: "furlong", Kind: "unit"}}))
	require.NoError(t, db.Close())

	comp, err := (&Loader{UnitsPath: units, OntologyPath: feed, OntologyDB: dbPath}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, comp.Units.Len())
	require.Equal(t, 2, comp.Ontology.Len())
	assert.Equal(t, "Crystal Lake", comp.Ontology.Records()[0].Term)
	assert.Equal(t, "furlong", comp.Ontology.Records()[1].Term)
}

func TestLoaderErrors(t *testing.T) {
	_, err := (&Loader{UnitsPath: filepath.Join(t.TempDir(), "missing.yaml")}).Load(context.Background())
	assert.Error(t, err)

	bad := writeFile(t, "terms.yaml", "types: [\n")
	_, err = (&Loader{TermsPath: bad}).Load(context.Background())
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))

	feed := writeFile(t, "feed.yaml", "records:\n  - term: x\n    kind: color\n")
	_, err = (&Loader{OntologyPath: feed}).Load(context.Background())
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestComponentsDriveEngine(t *testing.T) {
	feed := writeFile(t, "feed.yaml", "records:\n  - term: Crystal Lake\n    kind: location\n    slots:\n      - {name: TYPE, value: lake}\n")
	comp, err := (&Loader{OntologyPath: feed}).Load(context.Background())
	require.NoError(t, err)

	e, err := nerkit.New(comp.EngineOptions(nil))
	require.NoError(t, err)
	res, err := e.Process(context.Background(), "We swam in Crystal Lake today.")
	require.NoError(t, err)
	require.Len(t, res.OfType(referent.TypeNamedEntity), 1)
}
