// Package casregistry lets binaries choose an artifact store by name.
//
// Backends are linked at build time: a backend package registers itself in
// init() and a binary enables it with a blank import. Options can come from
// command-line flags (RegisterFlags + Open) or from a plan file
// (OpenWithOptions, Config.Open).
package casregistry

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/essential-contributions/zk-benchmarks/storage"
)

// Option is one backend setting. Key doubles as the flag name.
type Option struct {
	Key     string
	Default string
	Help    string
}

// Options holds backend settings by key.
type Options map[string]string

// Get returns the value for key with surrounding whitespace removed.
func (o Options) Get(key string) string { return strings.TrimSpace(o[key]) }

// Opener builds a store from options. The returned close function may be nil.
type Opener func(ctx context.Context, opts Options) (storage.CAS, func() error, error)

// Backend describes one registered store implementation.
type Backend struct {
	Name        string
	Description string
	Usage       Usage
	Options     []Option
	Open        Opener
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
	// flagValues holds values bound by RegisterFlags, by backend name.
	flagValues = map[string]map[string]*string{}
)

// Register adds a backend. Names must be unique.
func Register(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("casregistry: backend name is required")
	}
	if b.Open == nil {
		return fmt.Errorf("casregistry: backend %q missing Open", b.Name)
	}
	if b.Usage == 0 {
		return fmt.Errorf("casregistry: backend %q missing Usage", b.Name)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[b.Name]; exists {
		return fmt.Errorf("casregistry: backend %q already registered", b.Name)
	}
	backends[b.Name] = b
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns the backends allowed for usage, sorted by name.
func List(usage Usage) []Backend {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b.Usage.allows(usage) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted names of the backends allowed for usage.
func Names(usage Usage) []string {
	bs := List(usage)
	names := make([]string, 0, len(bs))
	for _, b := range bs {
		names = append(names, b.Name)
	}
	return names
}

// RegisterFlags adds one string flag per option of every backend allowed for
// usage. Options shared by several backends are registered once.
func RegisterFlags(fs *flag.FlagSet, usage Usage) {
	for _, b := range List(usage) {
		vals := make(map[string]*string, len(b.Options))
		for _, o := range b.Options {
			if f := fs.Lookup(o.Key); f != nil {
				if sv, ok := f.Value.(*stringValue); ok {
					vals[o.Key] = sv.p
				}
				continue
			}
			p := new(string)
			*p = o.Default
			fs.Var(&stringValue{p: p}, o.Key, fmt.Sprintf("%s (for --backend=%s)", o.Help, b.Name))
			vals[o.Key] = p
		}
		mu.Lock()
		flagValues[b.Name] = vals
		mu.Unlock()
	}
}

// Open opens the named backend with the values parsed into flags registered
// by RegisterFlags. Options with no bound flag fall back to their defaults.
func Open(ctx context.Context, name string, usage Usage) (storage.CAS, func() error, error) {
	b, err := lookup(name, usage)
	if err != nil {
		return nil, nil, err
	}
	mu.RLock()
	vals := flagValues[name]
	mu.RUnlock()
	opts := make(Options, len(b.Options))
	for _, o := range b.Options {
		opts[o.Key] = o.Default
		if p, ok := vals[o.Key]; ok && p != nil {
			opts[o.Key] = *p
		}
	}
	return b.Open(ctx, opts)
}

// OpenWithOptions opens the named backend with explicit options. Unknown
// keys are rejected so a typo in a plan file does not go unnoticed.
func OpenWithOptions(ctx context.Context, name string, usage Usage, given Options) (storage.CAS, func() error, error) {
	b, err := lookup(name, usage)
	if err != nil {
		return nil, nil, err
	}
	opts := make(Options, len(b.Options))
	known := make(map[string]bool, len(b.Options))
	for _, o := range b.Options {
		opts[o.Key] = o.Default
		known[o.Key] = true
	}
	for k, v := range given {
		if !known[k] {
			return nil, nil, fmt.Errorf("casregistry: backend %q has no option %q", name, k)
		}
		opts[k] = v
	}
	return b.Open(ctx, opts)
}

func lookup(name string, usage Usage) (Backend, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return Backend{}, fmt.Errorf("casregistry: unknown backend %q", name)
	}
	if !b.Usage.allows(usage) {
		return Backend{}, fmt.Errorf("casregistry: backend %q not supported in this binary", name)
	}
	return b, nil
}

type stringValue struct{ p *string }

func (s *stringValue) String() string {
	if s == nil || s.p == nil {
		return ""
	}
	return *s.p
}

func (s *stringValue) Set(v string) error {
	*s.p = v
	return nil
}

func init() {
	MustRegister(Backend{
		Name:        "memory",
		Description: "In-process store, discarded on exit",
		Usage:       UsageCLI | UsageDaemon,
		Open: func(context.Context, Options) (storage.CAS, func() error, error) {
			return storage.NewMemory(), nil, nil
		},
	})
}
