package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
)

func openTemp(t *testing.T) *Source {
	t.Helper()
	src, err := Open(context.Background(), filepath.Join(t.TempDir(), "ontology.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestImportAndRecords(t *testing.T) {
	ctx := context.Background()
	src := openTemp(t)

	recs := []ontology.Record{
		{Term: "Eiffel Tower", Kind: "monument", Slots: []ontology.SlotOverride{{Name: "TYPE", Value: "tower"}}},
		{Term: "furlong", Kind: "unit"},
	}
	if err := src.Import(ctx, recs); err != nil {
		t.Fatalf("Import: %v", err)
	}

	got, err := src.Records(ctx)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Term != "Eiffel Tower" || len(got[0].Slots) != 1 || got[0].Slots[0].Value != "tower" {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if got[1].Slots != nil {
		t.Errorf("expected nil slots for furlong, got %+v", got[1].Slots)
	}
}

func TestImportUpserts(t *testing.T) {
	ctx := context.Background()
	src := openTemp(t)

	_ = src.Import(ctx, []ontology.Record{{Term: "Alps", Kind: "location"}})
	err := src.Import(ctx, []ontology.Record{{Term: "Alps", Kind: "location", Slots: []ontology.SlotOverride{{Name: "TYPE", Value: "mountains"}}}})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	n, err := src.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 record after upsert, got %d", n)
	}
	got, _ := src.Records(ctx)
	if len(got[0].Slots) != 1 {
		t.Errorf("expected updated slots, got %+v", got[0].Slots)
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	src := openTemp(t)
	err := src.Import(context.Background(), []ontology.Record{{Term: "", Kind: "unit"}})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	src := openTemp(t)
	_ = src.Import(ctx, []ontology.Record{{Term: "Mars", Kind: "planet"}})

	if err := src.Delete(ctx, "Mars", "planet"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := src.Delete(ctx, "Mars", "planet"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBuildOntologyFromSQLite(t *testing.T) {
	ctx := context.Background()
	src := openTemp(t)
	_ = src.Import(ctx, []ontology.Record{{Term: "Big Ben", Kind: "monument"}})

	o, err := ontology.Build(ctx, src)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if o.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", o.Len())
	}
}
