package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rumbolabs/rumbo/internal/types"
)

// fileStore keeps one JSON file per feature under <root>/features.
// Writers of the same feature id are serialized twice over: an in-process
// mutex per id, and an advisory lock file for cross-process safety.
// Reads are lock-free; rename makes every visible record complete.
type fileStore struct {
	root  string
	stale time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-feature in-process write locks
}

func newFileStore(root string, stale time.Duration) (*fileStore, error) {
	dir := filepath.Join(root, "features")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StoreIOError{Op: "init", Err: err}
	}
	return &fileStore{
		root:  root,
		stale: stale,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *fileStore) featurePath(id string) string {
	return filepath.Join(s.root, "features", id+".json")
}

func (s *fileStore) featureLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Load reads and validates one feature record. Enum values outside the
// closed sets fail here, not at use sites.
func (s *fileStore) Load(ctx context.Context, featureID string) (*types.Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.featurePath(featureID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{FeatureID: featureID}
		}
		return nil, &StoreIOError{Op: "load", FeatureID: featureID, Err: err}
	}
	var f types.Feature
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &StoreIOError{Op: "load", FeatureID: featureID, Err: err}
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record for feature %s: %w", featureID, err)
	}
	return &f, nil
}

// Save validates, then writes the full record via write-to-temp-then-
// rename. A failure at any point leaves the prior record intact.
func (s *fileStore) Save(ctx context.Context, feature *types.Feature) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	feature.UpdatedAt = time.Now().UTC()
	if err := feature.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid feature %s: %w", feature.ID, err)
	}

	l := s.featureLock(feature.ID)
	l.Lock()
	defer l.Unlock()

	release, err := acquireLock(s.lockPath(feature.ID), s.stale)
	if err != nil {
		return &StoreIOError{Op: "lock", FeatureID: feature.ID, Err: err}
	}
	defer release()

	data, err := json.MarshalIndent(feature, "", "  ")
	if err != nil {
		return &StoreIOError{Op: "save", FeatureID: feature.ID, Err: err}
	}
	data = append(data, '\n')
	if err := atomicWriteFile(s.featurePath(feature.ID), data, 0644); err != nil {
		return &StoreIOError{Op: "save", FeatureID: feature.ID, Err: err}
	}
	return nil
}

// List returns summaries for every readable feature record, sorted by
// id. Records that fail to decode are skipped: listing is an
// eventually-consistent enumeration, not a validation pass.
func (s *fileStore) List(ctx context.Context) ([]*FeatureSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, "features")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &StoreIOError{Op: "list", Err: err}
	}
	var summaries []*FeatureSummary
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var f types.Feature
		if err := json.Unmarshal(data, &f); err != nil || f.ID == "" {
			continue
		}
		summaries = append(summaries, &FeatureSummary{
			ID:        f.ID,
			Title:     f.Title,
			Status:    f.Status,
			Progress:  f.Progress,
			UpdatedAt: f.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// Delete removes the feature record and its lock file.
func (s *fileStore) Delete(ctx context.Context, featureID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := s.featureLock(featureID)
	l.Lock()
	defer l.Unlock()

	if err := os.Remove(s.featurePath(featureID)); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{FeatureID: featureID}
		}
		return &StoreIOError{Op: "delete", FeatureID: featureID, Err: err}
	}
	_ = os.Remove(s.lockPath(featureID))
	return nil
}

func (s *fileStore) Close() error {
	return nil
}

func (s *fileStore) lockPath(id string) string {
	return filepath.Join(s.root, "features", "."+id+".lock")
}

// atomicWriteFile writes data to a temp file in the target directory,
// fsyncs it, and renames it into place so readers never observe a
// partial record.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := true
	defer func() {
		_ = tmp.Close()
		if cleanup {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file into place: %w", err)
	}
	cleanup = false
	return nil
}
