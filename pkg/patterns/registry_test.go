package patterns

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validSet() *PatternSet {
	return &PatternSet{
		Name:    "Docket Patterns",
		Version: "1.0",
		SetID:   "docket",
		Patterns: []NamedPattern{
			{Name: "case_no", Pattern: `No\.\s*(\d+-cv-\d+)`},
			{Name: "judge", Pattern: `Hon\.\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`},
		},
	}
}

func TestPatternSetValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*PatternSet)
		wantErr bool
	}{
		{"valid", func(ps *PatternSet) {}, false},
		{"missing_name", func(ps *PatternSet) { ps.Name = "" }, true},
		{"missing_set_id", func(ps *PatternSet) { ps.SetID = "" }, true},
		{"missing_version", func(ps *PatternSet) { ps.Version = "" }, true},
		{"no_patterns", func(ps *PatternSet) { ps.Patterns = nil }, true},
		{"unnamed_pattern", func(ps *PatternSet) { ps.Patterns[0].Name = "" }, true},
		{"empty_expression", func(ps *PatternSet) { ps.Patterns[0].Pattern = "" }, true},
		{"duplicate_names", func(ps *PatternSet) { ps.Patterns[1].Name = ps.Patterns[0].Name }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := validSet()
			tc.mutate(set)
			err := set.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestPatternSetCompile(t *testing.T) {
	set := validSet()
	if set.IsCompiled() {
		t.Error("New set should not be compiled")
	}
	if err := set.Compile(); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !set.IsCompiled() {
		t.Error("Set should be compiled")
	}
}

func TestPatternSetCompileBadExpression(t *testing.T) {
	set := validSet()
	set.Patterns[0].Pattern = `(`
	if err := set.Compile(); err == nil {
		t.Error("Expected compile error for unbalanced parenthesis")
	}
}

func TestPatternSetFindAll(t *testing.T) {
	set := validSet()
	if err := set.Compile(); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	matches := set.FindAll("case_no", "No. 21-cv-01234 consolidated with No. 22-cv-00001")
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0][1] != "21-cv-01234" {
		t.Errorf("Group 1: got %q, want %q", matches[0][1], "21-cv-01234")
	}

	if got := set.FindAll("no_such_pattern", "No. 21-cv-01234"); got != nil {
		t.Errorf("Unknown pattern name should yield nil, got %v", got)
	}
}

func TestPatternSetMatch(t *testing.T) {
	set := validSet()
	if err := set.Compile(); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !set.Match("judge", "before Hon. Jane Doe") {
		t.Error("Expected judge pattern to match")
	}
	if set.Match("judge", "no judge here") {
		t.Error("Expected judge pattern not to match")
	}
	if set.Match("no_such_pattern", "anything") {
		t.Error("Unknown pattern name should never match")
	}
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(validSet()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Count: got %d, want 1", registry.Count())
	}

	set, ok := registry.Get("docket")
	if !ok {
		t.Fatal("Expected to find registered set")
	}
	if !set.IsCompiled() {
		t.Error("Registered set should be compiled")
	}

	// Same ID and version must be rejected
	if err := registry.Register(validSet()); err == nil {
		t.Error("Expected duplicate registration error")
	}

	// A new version may replace the old one
	updated := validSet()
	updated.Version = "2.0"
	if err := registry.Register(updated); err != nil {
		t.Errorf("Version update failed: %v", err)
	}
}

func TestRegistryRegisterNil(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Error("Expected error registering nil set")
	}
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(validSet()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := registry.Unregister("docket"); err != nil {
		t.Errorf("Unregister failed: %v", err)
	}
	if err := registry.Unregister("docket"); err == nil {
		t.Error("Expected error unregistering missing set")
	}
}

func TestRegistryLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docket.yaml")
	content := `name: Docket Patterns
version: "1.0"
set_id: docket
description: Docket-sheet field patterns
patterns:
  - name: case_no
    pattern: 'No\.\s*(\d+-cv-\d+)'
    description: Civil case number
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	set, ok := registry.Get("docket")
	if !ok {
		t.Fatal("Expected loaded set")
	}
	matches := set.FindAll("case_no", "No. 21-cv-01234")
	if len(matches) != 1 || matches[0][1] != "21-cv-01234" {
		t.Errorf("FindAll after load: got %v", matches)
	}
}

func TestRegistryLoadDirectory(t *testing.T) {
	dir := t.TempDir()

	good := `name: Good
version: "1.0"
set_id: good
patterns:
  - name: word
    pattern: '\w+'
`
	if err := os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(good), 0644); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}
	// Non-YAML files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadDirectory(dir); err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Count: got %d, want 1", registry.Count())
	}
}

func TestRegistryLoadDirectoryMissing(t *testing.T) {
	registry := NewRegistry()
	if err := registry.LoadDirectory(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Errorf("Missing directory should load nothing without error, got %v", err)
	}
	if registry.Count() != 0 {
		t.Errorf("Count: got %d, want 0", registry.Count())
	}
}

func TestRegistryLoadDirectoryBadSet(t *testing.T) {
	dir := t.TempDir()
	bad := `name: Bad
version: "1.0"
set_id: bad
patterns:
  - name: broken
    pattern: '('
`
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0644); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadDirectory(dir); err == nil {
		t.Error("Expected error loading set with bad expression")
	}
}

func TestRegistryList(t *testing.T) {
	registry := NewRegistry()

	for _, id := range []string{"zeta", "alpha", "mid"} {
		set := validSet()
		set.SetID = id
		if err := registry.Register(set); err != nil {
			t.Fatalf("Register(%s) failed: %v", id, err)
		}
	}

	sets := registry.List()
	if len(sets) != 3 {
		t.Fatalf("List: got %d sets, want 3", len(sets))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, set := range sets {
		if set.SetID != want[i] {
			t.Errorf("List[%d]: got %q, want %q", i, set.SetID, want[i])
		}
	}
}

func TestRegistryWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping watch test in short mode")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "docket.yaml")
	content := `name: Docket Patterns
version: "1.0"
set_id: docket
patterns:
  - name: case_no
    pattern: 'OLD'
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}

	registry, err := NewRegistryWithDirectory(dir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory failed: %v", err)
	}

	changed := make(chan bool, 1)
	registry.SetOnChange(func(event string, set *PatternSet) {
		select {
		case changed <- true:
		default:
		}
	})

	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer registry.StopWatch()

	// Give the watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	// Edit the pattern expression without bumping the version; the watcher
	// must still replace the registered set.
	content = `name: Docket Patterns
version: "1.0"
set_id: docket
patterns:
  - name: case_no
    pattern: 'NEW'
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Rewriting fixture: %v", err)
	}

	select {
	case <-changed:
		// Wait a bit for the replacement to complete
		time.Sleep(100 * time.Millisecond)
	case <-time.After(3 * time.Second):
		// File watching can be flaky in CI environments, so we just log
		t.Log("Watch did not detect file change within timeout (may be CI environment)")
		return
	}

	set, ok := registry.Get("docket")
	if !ok {
		t.Fatal("Expected docket set after edit")
	}
	if p := set.Lookup("case_no"); p == nil || p.Pattern != "NEW" {
		t.Errorf("Pattern after same-version edit: got %v, want NEW", p)
	}
}

func TestRegistryWatchRemove(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping watch test in short mode")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "docket.yaml")
	content := `name: Docket Patterns
version: "1.0"
set_id: docket
patterns:
  - name: case_no
    pattern: '\d+'
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}

	registry, err := NewRegistryWithDirectory(dir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory failed: %v", err)
	}

	changed := make(chan bool, 1)
	registry.SetOnChange(func(event string, set *PatternSet) {
		if event == "remove" {
			select {
			case changed <- true:
			default:
			}
		}
	})

	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer registry.StopWatch()

	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(path); err != nil {
		t.Fatalf("Removing fixture: %v", err)
	}

	select {
	case <-changed:
		time.Sleep(100 * time.Millisecond)
	case <-time.After(3 * time.Second):
		t.Log("Watch did not detect file removal within timeout (may be CI environment)")
		return
	}

	if registry.Count() != 0 {
		t.Errorf("Count after removal: got %d, want 0", registry.Count())
	}
}

func TestRegistryWatchNoDirectory(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Watch(); err == nil {
		t.Error("Watch without directory should return error")
	}
}

func TestRegistryWatchBadEditReportsError(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping watch test in short mode")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "docket.yaml")
	content := `name: Docket Patterns
version: "1.0"
set_id: docket
patterns:
  - name: case_no
    pattern: '\d+'
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}

	registry, err := NewRegistryWithDirectory(dir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory failed: %v", err)
	}

	failed := make(chan bool, 1)
	registry.SetOnError(func(path string, err error) {
		select {
		case failed <- true:
		default:
		}
	})

	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer registry.StopWatch()

	time.Sleep(100 * time.Millisecond)

	// Break the pattern expression; the load failure must surface through
	// the error callback and the previous set must survive.
	bad := `name: Docket Patterns
version: "1.0"
set_id: docket
patterns:
  - name: case_no
    pattern: '('
`
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatalf("Rewriting fixture: %v", err)
	}

	select {
	case <-failed:
	case <-time.After(3 * time.Second):
		t.Log("Watch did not report bad edit within timeout (may be CI environment)")
		return
	}

	set, ok := registry.Get("docket")
	if !ok {
		t.Fatal("Previous set should survive a bad edit")
	}
	if p := set.Lookup("case_no"); p == nil || p.Pattern != `\d+` {
		t.Errorf("Pattern after bad edit: got %v, want previous expression", p)
	}
}

func TestRegistryReload(t *testing.T) {
	dir := t.TempDir()
	content := `name: Good
version: "1.0"
set_id: good
patterns:
  - name: word
    pattern: '\w+'
`
	path := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}

	registry, err := NewRegistryWithDirectory(dir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory failed: %v", err)
	}
	if registry.Count() != 1 {
		t.Fatalf("Count: got %d, want 1", registry.Count())
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Removing fixture: %v", err)
	}
	if err := registry.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if registry.Count() != 0 {
		t.Errorf("Count after reload: got %d, want 0", registry.Count())
	}
}
