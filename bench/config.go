package bench

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/essential-contributions/zk-benchmarks/guest"
	"github.com/essential-contributions/zk-benchmarks/keys"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"
)

// Config is a benchmark plan.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// Parallel runs workloads concurrently. Timings then include contention.
	Parallel bool `yaml:"parallel"`
	// Fixtures renders a proof fixture for every workload.
	Fixtures bool `yaml:"fixtures"`
	// FixtureDir, when set, receives <op>-fixture.json files.
	FixtureDir string `yaml:"fixture_dir"`
	// Executor is a remote executor address. Empty runs in-process.
	Executor string `yaml:"executor"`
	// Timeout bounds each workload. Zero means no limit.
	Timeout   time.Duration      `yaml:"timeout"`
	Workloads []Workload         `yaml:"workloads"`
	Storage   casregistry.Config `yaml:"storage"`
}

// Workload is one benchmarked job kind. Fields that do not apply to Op are
// ignored.
type Workload struct {
	Op     string `yaml:"op"`
	Repeat uint32 `yaml:"repeat"`

	ChunkSize uint32 `yaml:"chunk_size,omitempty"`

	Message  string `yaml:"message,omitempty"`
	Digest   string `yaml:"digest,omitempty"`
	SeedByte *uint8 `yaml:"seed_byte,omitempty"`
}

// DefaultConfig is the reference plan: 4 hashes of 8 KiB, 2 signatures and
// 2 Merkle proofs, run one after another.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Workloads: []Workload{
			{Op: "hash", Repeat: 4},
			{Op: "signature", Repeat: 2},
			{Op: "merkle", Repeat: 2},
		},
	}.withDefaults()
}

// ParseConfig reads a YAML plan. Missing workload fields take reference
// defaults and an empty workload list means the reference plan.
func ParseConfig(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("bench: parse config: %w", err)
	}
	if len(c.Workloads) == 0 {
		c.Workloads = DefaultConfig().Workloads
	}
	c = c.withDefaults()
	return c, c.Validate()
}

// LoadConfig reads the plan at path.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := ParseConfig(bytes.NewReader(b))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c Config) withDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	ws := make([]Workload, len(c.Workloads))
	for i, w := range c.Workloads {
		ws[i] = w.withDefaults()
	}
	c.Workloads = ws
	return c
}

func (w Workload) withDefaults() Workload {
	op, err := guest.ParseOp(w.Op)
	if err != nil {
		return w
	}
	switch op {
	case guest.OpHashChain:
		if w.ChunkSize == 0 {
			w.ChunkSize = DefaultChunkSize
		}
	case guest.OpSignatureBatch:
		if w.Message == "" {
			w.Message = DefaultMessage
		}
		if w.Digest == "" {
			w.Digest = "sha256"
		}
		if w.SeedByte == nil {
			b := uint8(keys.DefaultSeedByte)
			w.SeedByte = &b
		}
	}
	return w
}

// Validate checks the plan before anything runs.
func (c Config) Validate() error {
	if len(c.Workloads) == 0 {
		return errors.New("bench: no workloads")
	}
	if c.Timeout < 0 {
		return errors.New("bench: negative timeout")
	}
	for i, w := range c.Workloads {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("bench: workload %d: %w", i, err)
		}
	}
	if c.Storage.Enabled() {
		if err := c.Storage.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (w Workload) Validate() error {
	op, err := guest.ParseOp(w.Op)
	if err != nil {
		return err
	}
	if w.Repeat == 0 {
		return fmt.Errorf("%s: repeat must be positive", op)
	}
	switch op {
	case guest.OpHashChain:
		if w.ChunkSize == 0 {
			return fmt.Errorf("%s: chunk_size must be positive", op)
		}
	case guest.OpSignatureBatch:
		if _, err := keys.MessageDigest(w.Digest, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// Opcode returns the workload's opcode. Validate must have passed.
func (w Workload) Opcode() guest.Op {
	op, _ := guest.ParseOp(w.Op)
	return op
}

// Job builds the guest job for w.
func (w Workload) Job() (guest.Job, error) {
	w = w.withDefaults()
	if err := w.Validate(); err != nil {
		return nil, err
	}
	switch w.Opcode() {
	case guest.OpHashChain:
		return HashInput(w.Repeat, w.ChunkSize), nil
	case guest.OpSignatureBatch:
		job, err := SignatureInput(w.Repeat, w.Message, w.Digest, *w.SeedByte)
		if err != nil {
			return nil, err
		}
		return job, nil
	default:
		return MerkleInput(w.Repeat), nil
	}
}
