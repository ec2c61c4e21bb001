package bench

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ipfs/go-cid"
	"golang.org/x/sync/errgroup"

	"github.com/essential-contributions/zk-benchmarks/guest"
	"github.com/essential-contributions/zk-benchmarks/logging"
	"github.com/essential-contributions/zk-benchmarks/storage"
	"github.com/essential-contributions/zk-benchmarks/zkvm"
)

// Runner proves workloads through a backend and reports their cost.
type Runner struct {
	Backend zkvm.Backend
	// Store receives encoded inputs and fixtures when set.
	Store   storage.CAS
	Metrics *Metrics
	Log     logging.Logger
}

// Result is the outcome of one workload.
type Result struct {
	Workload   Workload
	Op         guest.Op
	Outputs    guest.Outputs
	InputBytes int
	ProveTime  time.Duration
	VerifyTime time.Duration
	// Fixture is set when fixtures were requested.
	Fixture    *zkvm.Fixture
	InputCID   cid.Cid
	FixtureCID cid.Cid
}

// PerIteration is the proving time divided by the repeat count.
func (r Result) PerIteration() time.Duration {
	if r.Outputs.Iterations == 0 {
		return 0
	}
	return r.ProveTime / time.Duration(r.Outputs.Iterations)
}

// Labels names the stored artifacts of the result, e.g. "hash-chain/input".
func (r Result) Labels() map[string]cid.Cid {
	out := map[string]cid.Cid{}
	if r.InputCID.Defined() {
		out[r.Op.String()+"/input"] = r.InputCID
	}
	if r.FixtureCID.Defined() {
		out[r.Op.String()+"/fixture"] = r.FixtureCID
	}
	return out
}

// Report is the outcome of a plan, in plan order.
type Report struct {
	Backend string
	VKey    zkvm.VerifyingKey
	Results []Result
}

// Labels merges the artifact labels of every result.
func (r Report) Labels() map[string]cid.Cid {
	out := map[string]cid.Cid{}
	for _, res := range r.Results {
		for k, v := range res.Labels() {
			out[k] = v
		}
	}
	return out
}

func (r *Runner) log() logging.Logger {
	if r.Log == nil {
		return logging.Base()
	}
	return r.Log
}

func (r *Runner) backend() zkvm.Backend {
	if r.Backend == nil {
		return zkvm.Native{}
	}
	return r.Backend
}

// Run executes every workload of cfg. The first failure stops the plan; in
// parallel mode it cancels the workloads still running.
func (r *Runner) Run(ctx context.Context, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	b := r.backend()
	report := Report{Backend: b.Name(), VKey: b.VerifyingKey(), Results: make([]Result, len(cfg.Workloads))}
	r.log().WithFields(logging.Fields{
		"backend":   report.Backend,
		"vkey":      report.VKey.Hex(),
		"workloads": len(cfg.Workloads),
		"parallel":  cfg.Parallel,
	}).Info("starting benchmark")

	runOne := func(ctx context.Context, i int) error {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		res, err := r.RunWorkload(ctx, cfg.Workloads[i], cfg.Fixtures)
		if err != nil {
			return fmt.Errorf("bench: %s: %w", cfg.Workloads[i].Op, err)
		}
		if cfg.FixtureDir != "" && res.Fixture != nil {
			if err := WriteFixture(cfg.FixtureDir, res.Op, *res.Fixture); err != nil {
				return err
			}
		}
		report.Results[i] = res
		return nil
	}

	if !cfg.Parallel {
		for i := range cfg.Workloads {
			if err := runOne(ctx, i); err != nil {
				return report, err
			}
		}
		return report, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range cfg.Workloads {
		i := i
		g.Go(func() error { return runOne(gctx, i) })
	}
	return report, g.Wait()
}

// RunWorkload builds, encodes, proves and verifies one workload.
func (r *Runner) RunWorkload(ctx context.Context, w Workload, withFixture bool) (Result, error) {
	b := r.backend()
	w = w.withDefaults()
	job, err := w.Job()
	if err != nil {
		return Result{}, err
	}
	op := job.Op()
	opName := op.String()
	log := r.log().WithFields(logging.Fields{"op": opName, "repeat": w.Repeat, "backend": b.Name()})

	input, err := guest.Encode(job)
	if err != nil {
		return Result{}, err
	}
	res := Result{Workload: w, Op: op, InputBytes: len(input)}

	if r.Store != nil {
		if res.InputCID, err = r.Store.Put(ctx, input); err != nil {
			return res, fmt.Errorf("store input: %w", err)
		}
	}

	log.Debug("proving")
	start := time.Now()
	proof, err := b.Prove(ctx, input)
	res.ProveTime = time.Since(start)
	if err != nil {
		r.Metrics.fail(opName, "prove")
		log.WithError(err).Error("proving failed")
		return res, err
	}

	if res.Outputs, err = proof.Outputs(); err != nil {
		r.Metrics.fail(opName, "outputs")
		return res, err
	}
	r.Metrics.observeProve(opName, b.Name(), res.ProveTime, res.Outputs.Iterations)

	start = time.Now()
	err = b.Verify(ctx, proof)
	res.VerifyTime = time.Since(start)
	if err != nil {
		r.Metrics.fail(opName, "verify")
		log.WithError(err).Error("verification failed")
		return res, err
	}
	r.Metrics.observeVerify(opName, b.Name(), res.VerifyTime)

	if withFixture {
		f := zkvm.NewFixture(proof)
		res.Fixture = &f
		if r.Store != nil {
			if res.FixtureCID, err = storage.PutJSON(ctx, r.Store, f); err != nil {
				return res, fmt.Errorf("store fixture: %w", err)
			}
		}
	}

	log.WithFields(logging.Fields{
		"digest":        hex.EncodeToString(res.Outputs.Digest[:]),
		"iterations":    res.Outputs.Iterations,
		"prove":         res.ProveTime,
		"verify":        res.VerifyTime,
		"per_iteration": res.PerIteration(),
	}).Info("proved")
	return res, nil
}

var fixtureDirMu sync.Mutex

// WriteFixture writes f to dir/<op>-fixture.json.
func WriteFixture(dir string, op guest.Op, f zkvm.Fixture) error {
	b, err := f.Marshal()
	if err != nil {
		return err
	}
	fixtureDirMu.Lock()
	defer fixtureDirMu.Unlock()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, op.String()+"-fixture.json"), append(b, '\n'), 0o644)
}
