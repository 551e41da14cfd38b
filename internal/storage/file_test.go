package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rumbolabs/rumbo/internal/types"
)

func newTestStore(t *testing.T) Storage {
	t.Helper()
	store, err := NewStorage(&Config{Root: t.TempDir(), LockStale: time.Minute})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testFeature(id string) *types.Feature {
	now := time.Now().UTC()
	return &types.Feature{
		ID:           id,
		Title:        "Payments",
		Description:  "Payment flow",
		Status:       types.FeatureTasksCreated,
		CurrentPhase: types.PhaseTasks,
		Tasks: []types.Task{
			{ID: "001", Slug: "schema", Title: "Schema", Status: types.TaskDefined, Priority: 1, Requisito: "REQ-7"},
			{ID: "002", Slug: "api", Title: "API", Status: types.TaskDefined, Priority: 2, DependsOn: []string{"001"}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := testFeature("20260830-100000-payments")
	if err := store.Save(ctx, f); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, f.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Title != f.Title || got.Status != f.Status || len(got.Tasks) != 2 {
		t.Errorf("loaded feature differs: %+v", got)
	}
	if got.Tasks[1].DependsOn[0] != "001" {
		t.Errorf("depends_on not preserved: %+v", got.Tasks[1])
	}
	if got.Tasks[0].Requisito != "REQ-7" {
		t.Errorf("requisito not preserved: %+v", got.Tasks[0])
	}
}

func TestSaveRefreshesUpdatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := testFeature("20260830-100001-payments")
	stale := time.Now().UTC().Add(-time.Hour)
	f.UpdatedAt = stale
	if err := store.Save(ctx, f); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, f.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.UpdatedAt.After(stale) {
		t.Errorf("updated_at %v not refreshed past %v", got.UpdatedAt, stale)
	}
}

func TestLoadNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load(context.Background(), "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.FeatureID != "nope" {
		t.Errorf("error names %q, want nope", nf.FeatureID)
	}
}

func TestLoadRejectsUnknownEnum(t *testing.T) {
	root := t.TempDir()
	store, err := NewStorage(&Config{Root: root, LockStale: time.Minute})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	f := testFeature("20260830-100002-payments")
	if err := store.Save(ctx, f); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Corrupt the status on disk; the closed-set check must fire on load.
	path := filepath.Join(root, "features", f.ID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	raw["status"] = "half_done"
	data, _ = json.Marshal(raw)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := store.Load(ctx, f.ID); err == nil {
		t.Fatal("expected validation error for unknown status value")
	}
}

func TestSaveRejectsInvalidFeature(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := testFeature("20260830-100003-payments")
	if err := store.Save(ctx, f); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, err := store.Load(ctx, f.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	f.Status = "bogus"
	if err := store.Save(ctx, f); err == nil {
		t.Fatal("expected error saving invalid feature")
	}

	// Prior record must be intact.
	after, err := store.Load(ctx, f.ID)
	if err != nil {
		t.Fatalf("Load after failed save: %v", err)
	}
	if after.Status != before.Status {
		t.Errorf("record mutated by failed save: %s", after.Status)
	}
}

func TestList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := testFeature("20260830-100004-alpha")
	a.Progress = 50
	b := testFeature("20260830-100005-beta")
	b.Status = types.FeatureCompleted
	b.CurrentPhase = types.PhaseDone
	b.Progress = 100
	for _, f := range []*types.Feature{b, a} {
		if err := store.Save(ctx, f); err != nil {
			t.Fatalf("Save %s: %v", f.ID, err)
		}
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	// Sorted by id.
	if summaries[0].ID != a.ID || summaries[1].ID != b.ID {
		t.Errorf("unexpected order: %s, %s", summaries[0].ID, summaries[1].ID)
	}
	if summaries[0].Progress != 50 || summaries[1].Status != types.FeatureCompleted {
		t.Errorf("summary fields wrong: %+v", summaries)
	}
}

func TestListSkipsCorruptRecords(t *testing.T) {
	root := t.TempDir()
	store, err := NewStorage(&Config{Root: root, LockStale: time.Minute})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	f := testFeature("20260830-100006-gamma")
	if err := store.Save(ctx, f); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Simulate a half-written record from another writer.
	bad := filepath.Join(root, "features", "partial.json")
	if err := os.WriteFile(bad, []byte(`{"id": "trunc`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != f.ID {
		t.Errorf("List = %+v, want only %s", summaries, f.ID)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := testFeature("20260830-100007-delta")
	if err := store.Save(ctx, f); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, f.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var nf *NotFoundError
	if _, err := store.Load(ctx, f.ID); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
	if err := store.Delete(ctx, f.ID); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError on double delete, got %v", err)
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	store, err := NewStorage(&Config{Root: root, LockStale: time.Minute})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	f := testFeature("20260830-100008-epsilon")
	for i := 0; i < 3; i++ {
		if err := store.Save(ctx, f); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(root, "features"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != f.ID+".json" {
			t.Errorf("unexpected leftover file: %s", e.Name())
		}
	}
}
