package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/essential-contributions/zk-benchmarks/bench"
	"github.com/essential-contributions/zk-benchmarks/execsvc"
	"github.com/essential-contributions/zk-benchmarks/logging"
	"github.com/essential-contributions/zk-benchmarks/storage"
	"github.com/essential-contributions/zk-benchmarks/storage/bundle"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"
	"github.com/essential-contributions/zk-benchmarks/zkvm"
)

const dialTimeout = 5 * time.Second

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prove and verify the workloads of a benchmark plan",
		Long: `Run proves every workload of the plan and prints one summary per workload.

Without --config the reference plan runs: 4 hashes of 8 KiB, 2 ed25519
signatures and 2 sparse Merkle proofs. --op and --repeat replace the plan's
workloads with a single one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, stdout, stderr)
		},
	}
	cmd.Flags().String("config", "", "YAML benchmark plan")
	cmd.Flags().String("op", "", "Run only this workload: hash, signature or merkle")
	cmd.Flags().Uint32("repeat", 0, "Repeat count for --op")
	cmd.Flags().String("executor", "", "Remote executor address (host:port); empty runs in-process")
	cmd.Flags().Bool("fixtures", false, "Render a proof fixture for every workload")
	cmd.Flags().String("fixture-dir", "", "Write <op>-fixture.json files here (implies --fixtures)")
	cmd.Flags().Bool("parallel", false, "Run workloads concurrently")
	cmd.Flags().Duration("timeout", 0, "Per-workload time limit, 0 for none")
	cmd.Flags().String("bundle", "", "Export the run's stored artifacts to this tar file")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
	return cmd
}

func runRun(cmd *cobra.Command, stdout, stderr io.Writer) error {
	ctx := cmd.Context()
	cfg, err := loadPlan(cmd.Flags())
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		lvl, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logging.Base().SetLevel(lvl)
	}
	log := logging.Base()

	backend, closeBackend, err := openBackend(ctx, cfg.Executor)
	if err != nil {
		return err
	}
	defer closeBackend()

	store, closeStore, err := openStore(ctx, cmd, casregistry.UsageCLI, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	metrics, err := bench.NewMetrics(reg)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		stopMetrics, err := serveMetrics(addr, reg, log)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	runner := &bench.Runner{Backend: backend, Store: store, Metrics: metrics, Log: log}
	report, err := runner.Run(ctx, cfg)
	if err != nil {
		return err
	}
	if err := report.WriteText(stdout); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("bundle"); path != "" {
		if err := writeBundle(ctx, path, store, report); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "wrote %s\n", path)
	}
	return nil
}

// loadPlan reads --config (or the reference plan) and applies flag
// overrides.
func loadPlan(flags *pflag.FlagSet) (bench.Config, error) {
	cfg := bench.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if cfg, err = bench.LoadConfig(path); err != nil {
			return bench.Config{}, err
		}
	}

	if op, _ := flags.GetString("op"); op != "" {
		repeat, _ := flags.GetUint32("repeat")
		cfg.Workloads = []bench.Workload{{Op: op, Repeat: repeat}}
	} else if flags.Changed("repeat") {
		return bench.Config{}, errors.New("--repeat requires --op")
	}
	if flags.Changed("executor") {
		cfg.Executor, _ = flags.GetString("executor")
	}
	if flags.Changed("parallel") {
		cfg.Parallel, _ = flags.GetBool("parallel")
	}
	if flags.Changed("fixtures") {
		cfg.Fixtures, _ = flags.GetBool("fixtures")
	}
	if flags.Changed("fixture-dir") {
		cfg.FixtureDir, _ = flags.GetString("fixture-dir")
	}
	if cfg.FixtureDir != "" {
		cfg.Fixtures = true
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	return cfg, cfg.Validate()
}

// openBackend dials the remote executor, or returns the in-process one.
func openBackend(ctx context.Context, addr string) (zkvm.Backend, func(), error) {
	if addr == "" {
		return zkvm.Native{}, func() {}, nil
	}
	client, err := execsvc.Dial(ctx, addr, execsvc.DialOptions{Timeout: dialTimeout})
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log logging.Logger) (func(), error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Warn("metrics server stopped")
		}
	}()
	log.With("addr", lis.Addr().String()).Info("serving metrics")
	return func() { _ = srv.Close() }, nil
}

func writeBundle(ctx context.Context, path string, store storage.CAS, report bench.Report) error {
	labels := report.Labels()
	if len(labels) == 0 {
		return errors.New("nothing to bundle: no artifacts were stored")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bundle.Export(ctx, f, store, nil, bundle.ExportOptions{Labels: labels}); err != nil {
		_ = f.Close()
		return fmt.Errorf("bundle %s: %w", path, err)
	}
	return f.Close()
}
