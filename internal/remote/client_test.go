package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(config.RemoteConfig{BaseURL: srv.URL, Owner: "acme", Repo: "widgets"}, "tok")
}

func TestList_Pagination(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/labels" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		page := r.URL.Query().Get("page")
		if page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/widgets/labels?page=2>; rel="next"`, srv.URL))
			fmt.Fprint(w, `[{"id":1,"name":"bug"},{"id":2,"name":"docs"}]`)
			return
		}
		fmt.Fprint(w, `[{"id":3,"name":"feature"}]`)
	}))
	defer srv.Close()

	recs, err := testClient(srv).List(context.Background(), "labels")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3 across pages", len(recs))
	}
	if recs[2].Key != "feature" || recs[2].ID != 3 {
		t.Errorf("last record = %+v", recs[2])
	}
}

func TestList_IssuesDropPullRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id":10,"number":1,"title":"real issue"},
			{"id":11,"number":2,"title":"a pr","pull_request":{"url":"x"}}
		]`)
	}))
	defer srv.Close()

	recs, err := testClient(srv).List(context.Background(), "issues")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Number != 1 {
		t.Fatalf("recs = %+v, want only the real issue", recs)
	}
}

func TestDoJSON_RateLimitRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	start := time.Now()
	_, err := testClient(srv).List(context.Background(), "labels")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want retry after rate limit", calls)
	}
	if time.Since(start) < time.Second {
		t.Error("client should have waited before retrying")
	}
}

func TestDoJSON_ErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv).List(context.Background(), "labels")
	if err == nil {
		t.Fatal("want error")
	}
	for _, want := range []string{"404", "labels"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should contain %q: %v", want, err)
		}
	}
}

func TestCreate_NestedPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/acme/widgets/issues/7/comments" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["body"] != "hello" {
			t.Errorf("payload = %v", body)
		}
		fmt.Fprint(w, `{"id":99}`)
	}))
	defer srv.Close()

	rec, err := testClient(srv).Create(context.Background(), "issue_comments", 7,
		record(`{"body":"hello"}`))
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 99 {
		t.Errorf("created ID = %d", rec.ID)
	}
}

func TestUpdate_LabelByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/repos/acme/widgets/labels/bug" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"id":1,"name":"bug","color":"blue"}`)
	}))
	defer srv.Close()

	rec := record(`{"name":"bug","color":"blue"}`)
	rec.Key = "bug"
	out, err := testClient(srv).Update(context.Background(), "labels", rec)
	if err != nil {
		t.Fatal(err)
	}
	if out.Key != "bug" {
		t.Errorf("updated = %+v", out)
	}
}

func TestDelete_MilestoneByNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/repos/acme/widgets/milestones/4" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rec := record(`{}`)
	rec.Number = 4
	if err := testClient(srv).Delete(context.Background(), "milestones", rec); err != nil {
		t.Fatal(err)
	}
}

func TestListForParent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/pulls/3/reviews" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"id":55,"state":"APPROVED"}]`)
	}))
	defer srv.Close()

	recs, err := testClient(srv).ListForParent(context.Background(), "pr_reviews", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != 55 {
		t.Fatalf("recs = %+v", recs)
	}
}

func TestListForParentWideID(t *testing.T) {
	// Release IDs exceed 32 bits; the parent key must survive intact.
	const release = int64(5_000_000_123)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/releases/5000000123/assets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"id":9,"name":"app.tar.gz"}]`)
	}))
	defer srv.Close()

	recs, err := testClient(srv).ListForParent(context.Background(), "release_assets", release)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Parent != release {
		t.Fatalf("recs = %+v, want parent %d", recs, release)
	}
}

func TestNextLink(t *testing.T) {
	link := `<https://x/p?page=2>; rel="next", <https://x/p?page=9>; rel="last"`
	if got := nextLink(link); got != "https://x/p?page=2" {
		t.Errorf("nextLink = %q", got)
	}
	if got := nextLink(`<https://x/p?page=9>; rel="last"`); got != "" {
		t.Errorf("nextLink = %q, want empty", got)
	}
}

func record(data string) model.Record {
	return model.Record{Data: json.RawMessage(data)}
}
