package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flarebyte/baldrick-gitvault/internal/orchestrate"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
)

func testService() Service {
	return Service{
		Version: "test",
		Backup: func(ctx context.Context, note string) (*orchestrate.Report, error) {
			if note == "fail" {
				return nil, errors.New("remote unavailable")
			}
			return &orchestrate.Report{Mode: orchestrate.ModeSave, ArchiveID: "01TEST"}, nil
		},
		List: func(ctx context.Context) ([]storage.Meta, error) {
			return []storage.Meta{{ID: "01TEST"}}, nil
		},
	}
}

func TestRouter_Healthz(t *testing.T) {
	srv := httptest.NewServer(NewRouter(testService()))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRouter_Status(t *testing.T) {
	srv := httptest.NewServer(NewRouter(testService()))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] != "test" || body["archives"] != float64(1) {
		t.Errorf("body = %v", body)
	}
}

func TestRouter_Backup(t *testing.T) {
	srv := httptest.NewServer(NewRouter(testService()))
	defer srv.Close()
	resp, err := http.Post(srv.URL+"/v1/backup", "application/json", strings.NewReader(`{"note":"nightly"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var rep orchestrate.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatal(err)
	}
	if rep.ArchiveID != "01TEST" {
		t.Errorf("report = %+v", rep)
	}
}

func TestRouter_BackupFailure(t *testing.T) {
	srv := httptest.NewServer(NewRouter(testService()))
	defer srv.Close()
	resp, err := http.Post(srv.URL+"/v1/backup", "application/json", strings.NewReader(`{"note":"fail"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
