package patterns

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

// NamedPattern is one caller-defined pattern inside a PatternSet.
type NamedPattern struct {
	Name        string `yaml:"name" json:"name"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Compiled regex (populated by PatternSet.Compile)
	compiled *regexp.Regexp
}

// PatternSet is a named collection of patterns that callers can define in
// YAML and run against arbitrary text, alongside the built-in pattern set.
type PatternSet struct {
	Name        string         `yaml:"name" json:"name"`
	Version     string         `yaml:"version" json:"version"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	SetID       string         `yaml:"set_id" json:"set_id"`
	Patterns    []NamedPattern `yaml:"patterns" json:"patterns"`

	compiled bool
}

// Validate checks that the set has all required fields and unique pattern names.
func (ps *PatternSet) Validate() error {
	if ps.Name == "" {
		return fmt.Errorf("pattern set name is required")
	}
	if ps.SetID == "" {
		return fmt.Errorf("pattern set set_id is required")
	}
	if ps.Version == "" {
		return fmt.Errorf("pattern set version is required")
	}
	if len(ps.Patterns) == 0 {
		return fmt.Errorf("pattern set must contain at least one pattern")
	}

	seen := make(map[string]bool, len(ps.Patterns))
	for i, p := range ps.Patterns {
		if p.Name == "" {
			return fmt.Errorf("pattern %d has no name", i)
		}
		if p.Pattern == "" {
			return fmt.Errorf("pattern %q has no expression", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate pattern name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Compile compiles every pattern in the set. Returns an error naming the
// first pattern that fails to compile.
func (ps *PatternSet) Compile() error {
	for i := range ps.Patterns {
		p := &ps.Patterns[i]
		compiled, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("compiling pattern %q expression %q: %w", p.Name, p.Pattern, err)
		}
		p.compiled = compiled
	}
	ps.compiled = true
	return nil
}

// IsCompiled returns true if the set has been compiled.
func (ps *PatternSet) IsCompiled() bool {
	return ps.compiled
}

// Lookup returns the named pattern, or nil if the set has no such pattern.
func (ps *PatternSet) Lookup(name string) *NamedPattern {
	for i := range ps.Patterns {
		if ps.Patterns[i].Name == name {
			return &ps.Patterns[i]
		}
	}
	return nil
}

// Match reports whether the named pattern matches the text. An unknown
// pattern name never matches.
func (ps *PatternSet) Match(name, text string) bool {
	p := ps.Lookup(name)
	return p != nil && p.compiled != nil && p.compiled.MatchString(text)
}

// FindAll returns every match of the named pattern in the text, each as the
// full match followed by its capture groups. An unknown pattern name yields
// nil.
func (ps *PatternSet) FindAll(name, text string) [][]string {
	p := ps.Lookup(name)
	if p == nil || p.compiled == nil {
		return nil
	}
	return p.compiled.FindAllStringSubmatch(text, -1)
}

// Registry manages caller-defined pattern sets.
type Registry interface {
	// Register adds a pattern set to the registry
	Register(set *PatternSet) error

	// Unregister removes a pattern set from the registry
	Unregister(setID string) error

	// Get returns a pattern set by its set ID
	Get(setID string) (*PatternSet, bool)

	// List returns all registered pattern sets
	List() []*PatternSet

	// LoadDirectory loads all YAML pattern-set files from a directory
	LoadDirectory(dir string) error

	// LoadFile loads a single pattern-set file
	LoadFile(path string) error

	// Reload reloads all pattern sets from the configured directory
	Reload() error

	// Watch starts watching the pattern directory for changes
	Watch() error

	// StopWatch stops watching the pattern directory
	StopWatch()
}

// DefaultRegistry is the default implementation of Registry.
type DefaultRegistry struct {
	mu       sync.RWMutex
	sets     map[string]*PatternSet
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string, set *PatternSet)
	onError  func(path string, err error)
}

// NewRegistry creates an empty pattern-set registry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		sets: make(map[string]*PatternSet),
	}
}

// NewRegistryWithDirectory creates a registry and loads every pattern set
// from the directory.
func NewRegistryWithDirectory(dir string) (*DefaultRegistry, error) {
	r := NewRegistry()
	r.dir = dir

	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Register validates, compiles, and adds a pattern set. A set that is
// already registered under the same ID and version is rejected; use a new
// version to update, or edit the set's file under a watched directory,
// which replaces it unconditionally.
func (r *DefaultRegistry) Register(set *PatternSet) error {
	return r.register(set, false)
}

func (r *DefaultRegistry) register(set *PatternSet, replace bool) error {
	if set == nil {
		return fmt.Errorf("pattern set cannot be nil")
	}

	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid pattern set: %w", err)
	}

	if !set.IsCompiled() {
		if err := set.Compile(); err != nil {
			return fmt.Errorf("compiling pattern set %q: %w", set.SetID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sets[set.SetID]; ok && !replace {
		// Allow update only when the version changes
		if existing.Version == set.Version {
			return fmt.Errorf("pattern set %q version %s already registered", set.SetID, set.Version)
		}
	}

	r.sets[set.SetID] = set
	return nil
}

// Unregister removes a pattern set from the registry.
func (r *DefaultRegistry) Unregister(setID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sets[setID]; !ok {
		return fmt.Errorf("pattern set %q not found", setID)
	}

	delete(r.sets, setID)
	return nil
}

// Get returns a pattern set by its set ID.
func (r *DefaultRegistry) Get(setID string) (*PatternSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[setID]
	return set, ok
}

// List returns all registered pattern sets, sorted by set ID.
func (r *DefaultRegistry) List() []*PatternSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sets := make([]*PatternSet, 0, len(r.sets))
	for _, s := range r.sets {
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].SetID < sets[j].SetID
	})
	return sets
}

// Count returns the number of registered pattern sets.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}

// LoadDirectory loads all YAML pattern-set files from a directory. A missing
// directory loads nothing and is not an error.
func (r *DefaultRegistry) LoadDirectory(dir string) error {
	r.dir = dir

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		if err := r.LoadFile(path); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", name, err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading pattern sets: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// LoadFile loads a single pattern-set file.
func (r *DefaultRegistry) LoadFile(path string) error {
	return r.loadFile(path, false)
}

func (r *DefaultRegistry) loadFile(path string, replace bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var set PatternSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	if err := r.register(&set, replace); err != nil {
		return fmt.Errorf("registering pattern set: %w", err)
	}
	return nil
}

// Reload clears the registry and reloads from the configured directory.
func (r *DefaultRegistry) Reload() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for reload")
	}

	r.mu.Lock()
	r.sets = make(map[string]*PatternSet)
	r.mu.Unlock()

	return r.LoadDirectory(r.dir)
}

// SetOnChange sets a callback invoked when a watched pattern set changes.
func (r *DefaultRegistry) SetOnChange(fn func(event string, set *PatternSet)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// SetOnError sets a callback invoked when a watched file fails to load, so
// a broken edit surfaces instead of silently keeping the previous set.
func (r *DefaultRegistry) SetOnError(fn func(path string, err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = fn
}

func (r *DefaultRegistry) changeCallback() func(event string, set *PatternSet) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.onChange
}

func (r *DefaultRegistry) errorCallback() func(path string, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.onError
}

// Watch starts watching the configured directory for pattern-set changes.
func (r *DefaultRegistry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	r.watcher = watcher
	r.stopChan = make(chan struct{})

	go r.watchLoop()

	if err := watcher.Add(r.dir); err != nil {
		r.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}
	return nil
}

// watchLoop handles file system events until StopWatch is called.
func (r *DefaultRegistry) watchLoop() {
	for {
		select {
		case <-r.stopChan:
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}

			if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				r.handleFileChange(event.Name, "create")

			case event.Op&fsnotify.Write == fsnotify.Write:
				r.handleFileChange(event.Name, "modify")

			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				r.handleFileRemove(event.Name)
			}

		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleFileChange loads a created or modified pattern-set file. The edited
// set replaces any set already registered under the same ID, whether or not
// the file's version changed.
func (r *DefaultRegistry) handleFileChange(path string, eventType string) {
	if err := r.loadFile(path, true); err != nil {
		if onError := r.errorCallback(); onError != nil {
			onError(path, err)
		}
		return
	}

	if onChange := r.changeCallback(); onChange != nil {
		base := filepath.Base(path)
		setID := strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
		if set, ok := r.Get(setID); ok {
			onChange(eventType, set)
		}
	}
}

// handleFileRemove reloads the whole directory; there is no file-to-set
// mapping to remove a single set by path.
func (r *DefaultRegistry) handleFileRemove(path string) {
	if err := r.Reload(); err != nil {
		if onError := r.errorCallback(); onError != nil {
			onError(path, err)
		}
		return
	}

	if onChange := r.changeCallback(); onChange != nil {
		onChange("remove", nil)
	}
}

// StopWatch stops watching the pattern directory.
func (r *DefaultRegistry) StopWatch() {
	if r.stopChan != nil {
		close(r.stopChan)
	}
	if r.watcher != nil {
		r.watcher.Close()
	}
}
