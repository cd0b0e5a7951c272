package orchestrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/conflict"
	"github.com/flarebyte/baldrick-gitvault/internal/entity"
	"github.com/flarebyte/baldrick-gitvault/internal/model"
	"github.com/flarebyte/baldrick-gitvault/internal/remote"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/flarebyte/baldrick-gitvault/internal/strategy"
)

func testCatalog() []entity.Config {
	return []entity.Config{
		{Name: "milestones", ConfigKey: "GITVAULT_MILESTONES", DefaultEnabled: true},
		{Name: "issues", ConfigKey: "GITVAULT_ISSUES", DefaultEnabled: true,
			Shape: entity.ShapeSelectable, Dependencies: []string{"milestones"}},
	}
}

func testRegistry(t *testing.T, environ ...string) *entity.Registry {
	t.Helper()
	reg, err := entity.NewRegistry(testCatalog(), config.SnapshotFrom(environ), entity.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func testOrchestrator(t *testing.T, reg *entity.Registry, baseURL string, policy conflict.Policy) *Orchestrator {
	t.Helper()
	store, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &Orchestrator{
		Registry: reg,
		Factory:  strategy.NewFactory(),
		Remote:   remote.NewClient(config.RemoteConfig{BaseURL: baseURL, Owner: "acme", Repo: "widgets"}, "tok"),
		Store:    store,
		Policy:   policy,
	}
}

func TestSave_ArchivesInDependencyOrder(t *testing.T) {
	ctx := context.Background()
	var order []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/milestones"):
			order = append(order, "milestones")
			fmt.Fprint(w, `[{"id":1,"number":3,"title":"v1"}]`)
		case strings.HasSuffix(r.URL.Path, "/issues"):
			order = append(order, "issues")
			fmt.Fprint(w, `[{"id":10,"number":1,"title":"bug A"},{"id":11,"number":2,"title":"bug B"}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	o := testOrchestrator(t, testRegistry(t), srv.URL, conflict.FailIfExisting)
	rep, err := o.Save(ctx, "acme", "widgets", "nightly")
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "milestones" {
		t.Errorf("fetch order = %v", order)
	}
	if len(rep.Entities) != 2 || rep.Entities[1].Result.Count != 2 {
		t.Errorf("report = %+v", rep.Entities)
	}
	if rep.TotalCount() != 3 {
		t.Errorf("total = %d", rep.TotalCount())
	}

	arch, err := o.Store.Open(ctx, rep.ArchiveID)
	if err != nil {
		t.Fatal(err)
	}
	issues, err := arch.ReadEntity(ctx, "issues")
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 2 {
		t.Errorf("archived issues = %+v", issues)
	}
}

func TestSave_SelectiveMode(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/milestones"):
			fmt.Fprint(w, `[]`)
		case strings.HasSuffix(r.URL.Path, "/issues"):
			fmt.Fprint(w, `[{"id":1,"number":1},{"id":2,"number":2},{"id":3,"number":3},{"id":5,"number":5}]`)
		}
	}))
	defer srv.Close()

	reg := testRegistry(t, "GITVAULT_ISSUES=1,3,5")
	o := testOrchestrator(t, reg, srv.URL, conflict.FailIfExisting)
	rep, err := o.Save(ctx, "acme", "widgets", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range rep.Entities {
		if e.Name == "issues" {
			if e.Result.Count != 3 {
				t.Errorf("issues count = %d, want exactly the selected 1,3,5", e.Result.Count)
			}
			if !strings.HasPrefix(e.State, "subset") {
				t.Errorf("state = %q", e.State)
			}
		}
	}
}

func TestSave_MidRunFailureKeepsPartialReport(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/milestones") {
			fmt.Fprint(w, `[{"id":1,"number":1,"title":"v1"}]`)
			return
		}
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	o := testOrchestrator(t, testRegistry(t), srv.URL, conflict.FailIfExisting)
	rep, err := o.Save(ctx, "acme", "widgets", "")
	if err == nil {
		t.Fatal("want mid-run error")
	}
	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %T %v", err, err)
	}
	if ee.Entity != "issues" || ee.Phase != "read" || ee.Completed != 1 {
		t.Errorf("ExecError = %+v", ee)
	}
	if len(rep.Entities) != 1 || rep.Entities[0].Name != "milestones" {
		t.Errorf("partial report = %+v", rep.Entities)
	}
}

func TestRestore_RemapsMilestoneReferences(t *testing.T) {
	ctx := context.Background()

	var issuePayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			fmt.Fprint(w, `[]`)
		case strings.HasSuffix(r.URL.Path, "/milestones"):
			fmt.Fprint(w, `{"id":90,"number":9,"title":"v1"}`)
		case strings.HasSuffix(r.URL.Path, "/issues"):
			json.NewDecoder(r.Body).Decode(&issuePayload)
			fmt.Fprint(w, `{"id":400,"number":41,"title":"bug A"}`)
		}
	}))
	defer srv.Close()

	o := testOrchestrator(t, testRegistry(t), srv.URL, conflict.FailIfExisting)

	// Seed an archive holding a milestone (number 3) and an issue pointing
	// at it.
	arch, err := o.Store.Begin(ctx, "acme", "widgets", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := arch.WriteEntity(ctx, "milestones", []model.Record{
		{ID: 30, Number: 3, Key: "v1", Data: json.RawMessage(`{"title":"v1","state":"open"}`)},
	}); err != nil {
		t.Fatal(err)
	}
	if err := arch.WriteEntity(ctx, "issues", []model.Record{
		{ID: 10, Number: 1, Data: json.RawMessage(`{"title":"bug A","body":"x","milestone":{"number":3,"title":"v1"}}`)},
	}); err != nil {
		t.Fatal(err)
	}
	if err := arch.Seal(ctx); err != nil {
		t.Fatal(err)
	}

	rep, err := o.Restore(ctx, arch.ID(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Entities) != 2 {
		t.Fatalf("report = %+v", rep.Entities)
	}
	if issuePayload["milestone"] != float64(9) {
		t.Errorf("issue milestone = %v, want remapped number 9", issuePayload["milestone"])
	}
}

func TestRestore_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	posts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	o := testOrchestrator(t, testRegistry(t), srv.URL, conflict.FailIfExisting)
	arch, err := o.Store.Begin(ctx, "acme", "widgets", "")
	if err != nil {
		t.Fatal(err)
	}
	arch.WriteEntity(ctx, "milestones", []model.Record{
		{Number: 1, Key: "v1", Data: json.RawMessage(`{"title":"v1"}`)},
	})

	rep, err := o.Restore(ctx, arch.ID(), true)
	if err != nil {
		t.Fatal(err)
	}
	if posts != 0 {
		t.Errorf("%d writes during dry-run", posts)
	}
	if !rep.DryRun || rep.TotalCount() != 1 {
		t.Errorf("report = %+v", rep)
	}
}

func TestRestore_UnknownArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()
	o := testOrchestrator(t, testRegistry(t), srv.URL, conflict.FailIfExisting)
	if _, err := o.Restore(context.Background(), "01JUNKJUNKJUNKJUNKJUNKJUNK", false); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
