package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFSStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.Begin(ctx, "acme", "widgets", "nightly")
	if err != nil {
		t.Fatal(err)
	}
	recs := []model.Record{
		{ID: 1, Key: "bug", Data: json.RawMessage(`{"name":"bug","color":"red"}`)},
		{ID: 2, Key: "docs", Data: json.RawMessage(`{"name":"docs","color":"green"}`)},
	}
	if err := a.WriteEntity(ctx, "labels", recs); err != nil {
		t.Fatal(err)
	}
	if err := a.Seal(ctx); err != nil {
		t.Fatal(err)
	}

	opened, err := s.Open(ctx, a.ID())
	if err != nil {
		t.Fatal(err)
	}
	got, err := opened.ReadEntity(ctx, "labels")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Key != "bug" || got[1].ID != 2 {
		t.Fatalf("read back = %+v", got)
	}

	m, err := opened.Meta(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if m.Owner != "acme" || m.Repo != "widgets" || m.Counts["labels"] != 2 {
		t.Errorf("meta = %+v", m)
	}
}

func TestFSStore_ReadMissingEntityIsNil(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a, err := s.Begin(ctx, "acme", "widgets", "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := a.ReadEntity(ctx, "milestones")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("missing entity should read as nil, got %+v", got)
	}
}

func TestFSStore_WriteEntityReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a, _ := s.Begin(ctx, "acme", "widgets", "")
	first := []model.Record{{ID: 1, Key: "a", Data: json.RawMessage(`{}`)}}
	second := []model.Record{{ID: 2, Key: "b", Data: json.RawMessage(`{}`)}}
	if err := a.WriteEntity(ctx, "labels", first); err != nil {
		t.Fatal(err)
	}
	if err := a.WriteEntity(ctx, "labels", second); err != nil {
		t.Fatal(err)
	}
	got, err := a.ReadEntity(ctx, "labels")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Key != "b" {
		t.Fatalf("second write should replace, got %+v", got)
	}
}

func TestFSStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a1, _ := s.Begin(ctx, "acme", "widgets", "first")
	a2, _ := s.Begin(ctx, "acme", "widgets", "second")

	metas, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d archives", len(metas))
	}
	if metas[0].ID != a2.ID() || metas[1].ID != a1.ID() {
		t.Errorf("order = %s, %s", metas[0].ID, metas[1].ID)
	}
}

func TestFSStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a, _ := s.Begin(ctx, "acme", "widgets", "")
	if err := s.Delete(ctx, a.ID()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Open(ctx, a.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("open after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing = %v, want ErrNotFound", err)
	}
}

func TestNewID_Sortable(t *testing.T) {
	a, b := NewID(), NewID()
	if len(a) != 26 || len(b) != 26 {
		t.Fatalf("ids = %q %q", a, b)
	}
	if b < a {
		t.Errorf("ids should be monotonic: %s then %s", a, b)
	}
}
