package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
)

func env(kvs ...string) config.EnvSnapshot {
	return config.SnapshotFrom(kvs)
}

func discard(string, ...any) {}

func names(regs []*Registered) []string {
	out := make([]string, 0, len(regs))
	for _, r := range regs {
		out = append(out, r.Config.Name)
	}
	return out
}

func TestNewRegistry_EmptyCatalog(t *testing.T) {
	_, err := NewRegistry(nil, env(), Options{Logf: discard})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}

func TestNewRegistry_UnknownDependency(t *testing.T) {
	cat := []Config{
		{Name: "a", ConfigKey: "GITVAULT_A", DefaultEnabled: true, Dependencies: []string{"ghost"}},
	}
	_, err := NewRegistry(cat, env(), Options{Logf: discard})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name the unknown dependency: %v", err)
	}
}

func TestNewRegistry_Cycle(t *testing.T) {
	cat := []Config{
		{Name: "a", ConfigKey: "GITVAULT_A", DefaultEnabled: true, Dependencies: []string{"b"}},
		{Name: "b", ConfigKey: "GITVAULT_B", DefaultEnabled: true, Dependencies: []string{"a"}},
	}
	_, err := NewRegistry(cat, env(), Options{Logf: discard})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should mention cycle: %v", err)
	}
	if !strings.Contains(err.Error(), "a") || !strings.Contains(err.Error(), "b") {
		t.Errorf("error should name cycle members: %v", err)
	}
}

func TestNewRegistry_BadBooleanValue(t *testing.T) {
	cat := []Config{{Name: "a", ConfigKey: "GITVAULT_A", DefaultEnabled: true}}
	_, err := NewRegistry(cat, env("GITVAULT_A=banana"), Options{Logf: discard})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "GITVAULT_A") {
		t.Errorf("error should name the offending variable: %v", err)
	}
}

func TestNewRegistry_DefaultStates(t *testing.T) {
	cat := []Config{
		{Name: "on", ConfigKey: "GITVAULT_ON", DefaultEnabled: true},
		{Name: "off", ConfigKey: "GITVAULT_OFF", DefaultEnabled: false},
	}
	r, err := NewRegistry(cat, env(), Options{Logf: discard})
	if err != nil {
		t.Fatal(err)
	}
	e, _ := r.Entity("on")
	if e.State != Enabled || e.Explicit() {
		t.Errorf("on: state=%v explicit=%v", e.State, e.Explicit())
	}
	e, _ = r.Entity("off")
	if e.State != Disabled {
		t.Errorf("off: state=%v", e.State)
	}
}

func TestNewRegistry_SubsetState(t *testing.T) {
	cat := []Config{
		{Name: "issues", ConfigKey: "GITVAULT_ISSUES", DefaultEnabled: true, Shape: ShapeSelectable},
	}
	r, err := NewRegistry(cat, env("GITVAULT_ISSUES=1,3,5"), Options{Logf: discard})
	if err != nil {
		t.Fatal(err)
	}
	e, _ := r.Entity("issues")
	if e.State != EnabledSubset {
		t.Fatalf("state = %v, want EnabledSubset", e.State)
	}
	if !e.Selection.Includes(3) || e.Selection.Includes(2) {
		t.Errorf("selection = %v", e.Selection)
	}
}

// A 3-level chain: disabling the root cascades through every transitive
// dependent, and each auto-disable is observable via Warnings.
func TestNewRegistry_CascadingDisable(t *testing.T) {
	cat := []Config{
		{Name: "a", ConfigKey: "GITVAULT_A", DefaultEnabled: true},
		{Name: "b", ConfigKey: "GITVAULT_B", DefaultEnabled: true, Dependencies: []string{"a"}},
		{Name: "c", ConfigKey: "GITVAULT_C", DefaultEnabled: true, Dependencies: []string{"b"}},
	}
	r, err := NewRegistry(cat, env("GITVAULT_A=false"), Options{Logf: discard})
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"a", "b", "c"} {
		e, _ := r.Entity(n)
		if e.State != Disabled {
			t.Errorf("%s: state=%v, want Disabled", n, e.State)
		}
	}
	if len(r.EnabledEntities()) != 0 {
		t.Errorf("enabled = %v, want none", names(r.EnabledEntities()))
	}
	if len(r.Warnings()) != 2 {
		t.Errorf("warnings = %v, want 2 entries", r.Warnings())
	}
}

func TestNewRegistry_StrictExplicitConflict(t *testing.T) {
	cat := []Config{
		{Name: "a", ConfigKey: "GITVAULT_A", DefaultEnabled: true},
		{Name: "b", ConfigKey: "GITVAULT_B", DefaultEnabled: true, Dependencies: []string{"a"}},
	}
	_, err := NewRegistry(cat, env("GITVAULT_A=false", "GITVAULT_B=true"), Options{Strict: true, Logf: discard})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
	for _, want := range []string{"a", "b", "GITVAULT_A", "GITVAULT_B"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q: %v", want, err)
		}
	}
}

// Strict mode only rejects explicit conflicts; a defaulted-off dependency
// still cascades quietly.
func TestNewRegistry_StrictDefaultedDependencyCascades(t *testing.T) {
	cat := []Config{
		{Name: "a", ConfigKey: "GITVAULT_A", DefaultEnabled: false},
		{Name: "b", ConfigKey: "GITVAULT_B", DefaultEnabled: true, Dependencies: []string{"a"}},
	}
	r, err := NewRegistry(cat, env(), Options{Strict: true, Logf: discard})
	if err != nil {
		t.Fatalf("defaulted conflict should not be fatal in strict mode: %v", err)
	}
	e, _ := r.Entity("b")
	if e.State != Disabled {
		t.Errorf("b: state=%v, want Disabled", e.State)
	}
}

func TestRegistry_TopologicalOrder(t *testing.T) {
	r, err := NewRegistry(Catalog(), env(), Options{Logf: discard})
	if err != nil {
		t.Fatal(err)
	}
	pos := make(map[string]int)
	for i, e := range r.EnabledEntities() {
		pos[e.Config.Name] = i
	}
	for _, e := range r.EnabledEntities() {
		for _, dep := range e.Config.Dependencies {
			dp, ok := pos[dep]
			if !ok {
				continue // disabled dependency would have cascaded
			}
			if dp >= pos[e.Config.Name] {
				t.Errorf("%s (pos %d) must come after dependency %s (pos %d)",
					e.Config.Name, pos[e.Config.Name], dep, dp)
			}
		}
	}
}

func TestRegistry_OrderIsDeterministic(t *testing.T) {
	first, err := NewRegistry(Catalog(), env(), Options{Logf: discard})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		r, err := NewRegistry(Catalog(), env(), Options{Logf: discard})
		if err != nil {
			t.Fatal(err)
		}
		a, b := names(first.EnabledEntities()), names(r.EnabledEntities())
		if strings.Join(a, ",") != strings.Join(b, ",") {
			t.Fatalf("order changed between runs: %v vs %v", a, b)
		}
	}
}

// End-to-end scenario from the backlog: milestones -> issues -> comments.
func TestRegistry_MilestoneChainCascade(t *testing.T) {
	r, err := NewRegistry(Catalog(), env("GITVAULT_MILESTONES=off"), Options{Logf: discard})
	if err != nil {
		t.Fatal(err)
	}
	enabled := names(r.EnabledEntities())
	for _, n := range enabled {
		if n == "issues" || n == "issue_comments" || n == "milestones" {
			t.Errorf("%s should not be enabled, got %v", n, enabled)
		}
	}
	warned := strings.Join(r.Warnings(), "\n")
	if !strings.Contains(warned, "issues") || !strings.Contains(warned, "issue_comments") {
		t.Errorf("warnings should record both auto-disables: %q", warned)
	}
}

func TestRegistry_UnknownEntity(t *testing.T) {
	r, err := NewRegistry(Catalog(), env(), Options{Logf: discard})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Entity("nope"); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("want ErrUnknownEntity, got %v", err)
	}
}

func TestRegistry_AllEntityNamesIncludesDisabled(t *testing.T) {
	r, err := NewRegistry(Catalog(), env("GITVAULT_LABELS=0"), Options{Logf: discard})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, n := range r.AllEntityNames() {
		if n == "labels" {
			found = true
		}
	}
	if !found {
		t.Error("AllEntityNames should include disabled entities")
	}
}
