package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

const manifestFile = "manifest.json"

// fsStore keeps each archive as a directory of JSON files:
// <root>/<id>/manifest.json plus one <entity>.json per written entity.
type fsStore struct {
	root string
}

// NewFSStore returns a filesystem-backed store rooted at dir.
func NewFSStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", dir, err)
	}
	return &fsStore{root: dir}, nil
}

func (s *fsStore) Begin(ctx context.Context, owner, repo, note string) (Archive, error) {
	id := NewID()
	dir := filepath.Join(s.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create archive dir: %w", err)
	}
	a := &fsArchive{dir: dir, meta: Meta{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Owner:     owner,
		Repo:      repo,
		Note:      note,
		Counts:    map[string]int{},
	}}
	if err := a.writeManifest(); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *fsStore) Open(ctx context.Context, id string) (Archive, error) {
	dir := filepath.Join(s.root, id)
	a := &fsArchive{dir: dir}
	m, err := a.readManifest()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	a.meta = m
	return a, nil
}

func (s *fsStore) List(ctx context.Context) ([]Meta, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", s.root, err)
	}
	var out []Meta
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		a := &fsArchive{dir: filepath.Join(s.root, e.Name())}
		m, err := a.readManifest()
		if err != nil {
			// Skip directories that are not archives.
			continue
		}
		out = append(out, m)
	}
	// ULIDs sort by creation time; newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fsStore) Delete(ctx context.Context, id string) error {
	dir := filepath.Join(s.root, id)
	if _, err := os.Stat(filepath.Join(dir, manifestFile)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	return os.RemoveAll(dir)
}

func (s *fsStore) Close() {}

type fsArchive struct {
	dir  string
	meta Meta
}

func (a *fsArchive) ID() string { return a.meta.ID }

func (a *fsArchive) Meta(ctx context.Context) (Meta, error) {
	return a.readManifest()
}

func (a *fsArchive) WriteEntity(ctx context.Context, entity string, recs []model.Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal %s: %w", entity, err)
	}
	if err := os.WriteFile(a.entityPath(entity), data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", entity, err)
	}
	if a.meta.Counts == nil {
		a.meta.Counts = map[string]int{}
	}
	a.meta.Counts[entity] = len(recs)
	return a.writeManifest()
}

func (a *fsArchive) ReadEntity(ctx context.Context, entity string) ([]model.Record, error) {
	data, err := os.ReadFile(a.entityPath(entity))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: read %s: %w", entity, err)
	}
	var recs []model.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", entity, err)
	}
	return recs, nil
}

func (a *fsArchive) Seal(ctx context.Context) error {
	return a.writeManifest()
}

func (a *fsArchive) entityPath(entity string) string {
	return filepath.Join(a.dir, entity+".json")
}

func (a *fsArchive) writeManifest() error {
	data, err := json.MarshalIndent(a.meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(a.dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("storage: write manifest: %w", err)
	}
	return nil
}

func (a *fsArchive) readManifest() (Meta, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, manifestFile))
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, fmt.Errorf("storage: decode manifest: %w", err)
	}
	return m, nil
}
