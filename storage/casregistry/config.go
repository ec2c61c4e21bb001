package casregistry

import (
	"context"
	"errors"
	"fmt"

	"github.com/essential-contributions/zk-benchmarks/storage"
)

// Write policies for Config.
const (
	WriteFirst = "first"
	WriteAll   = "all"
)

// Config selects one or more stores from a plan file:
//
//	storage:
//	  write_policy: all
//	  backends:
//	    - name: localfs
//	      options: {localfs-dir: /var/lib/opbench}
//	    - name: grpc
//	      id: lab
//	      options: {grpc-target: "10.0.0.7:7777"}
//
// With write_policy "first" (the default) only the first backend receives
// writes and reads fall back in order. With "all" every backend receives
// every write.
type Config struct {
	WritePolicy string          `yaml:"write_policy,omitempty" json:"write_policy,omitempty"`
	Backends    []BackendConfig `yaml:"backends" json:"backends"`
}

// BackendConfig names one backend and its options. ID defaults to Name and
// must be unique within a Config.
type BackendConfig struct {
	Name    string  `yaml:"name" json:"name"`
	ID      string  `yaml:"id,omitempty" json:"id,omitempty"`
	Options Options `yaml:"options,omitempty" json:"options,omitempty"`
}

func (b BackendConfig) id() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}

// Enabled reports whether any backend is configured.
func (c Config) Enabled() bool { return len(c.Backends) > 0 }

func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("casregistry: at least one backend is required")
	}
	seen := make(map[string]bool, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return errors.New("casregistry: backend name is required")
		}
		if seen[b.id()] {
			return fmt.Errorf("casregistry: duplicate backend id %q", b.id())
		}
		seen[b.id()] = true
	}
	switch c.WritePolicy {
	case "", WriteFirst, WriteAll:
		return nil
	default:
		return fmt.Errorf("casregistry: invalid write_policy %q", c.WritePolicy)
	}
}

// Open opens every configured backend and combines them per WritePolicy.
// On failure the backends opened so far are closed.
func (c Config) Open(ctx context.Context, usage Usage) (storage.CAS, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	named := make([]storage.NamedCAS, 0, len(c.Backends))
	var closers []func() error
	closeAll := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	for _, b := range c.Backends {
		cas, closeFn, err := OpenWithOptions(ctx, b.Name, usage, b.Options)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("casregistry: open %q: %w", b.id(), err)
		}
		named = append(named, storage.NamedCAS{Name: b.id(), CAS: cas})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	if len(named) == 1 {
		return named[0].CAS, closeAll, nil
	}
	if c.WritePolicy == WriteAll {
		return storage.ReplicatingCAS{Backends: named}, closeAll, nil
	}
	stores := make([]storage.CAS, 0, len(named))
	for _, n := range named {
		stores = append(stores, n.CAS)
	}
	return storage.MultiCAS{Adapters: stores}, closeAll, nil
}
