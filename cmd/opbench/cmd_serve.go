package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/essential-contributions/zk-benchmarks/execsvc"
	"github.com/essential-contributions/zk-benchmarks/logging"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"
	"github.com/essential-contributions/zk-benchmarks/storage/grpccas"
)

func newServeCmd(stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the remote executor and the artifact store over gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, stderr)
		},
	}
	cmd.Flags().String("listen", "127.0.0.1:7777", "gRPC listen address")
	cmd.Flags().String("metrics", "", "Serve Prometheus metrics on this address")
	cmd.Flags().Int("max-msg-bytes", 0, "Max gRPC message size in bytes, 0 for the gRPC default")
	return cmd
}

func runServe(cmd *cobra.Command, stderr io.Writer) error {
	ctx := cmd.Context()
	log := logging.Base()

	store, closeStore, err := openStore(ctx, cmd, casregistry.UsageDaemon, casregistry.Config{})
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	rpcs := newRPCMetrics()
	if err := reg.Register(rpcs); err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("metrics"); addr != "" {
		stopMetrics, err := serveMetrics(addr, reg, log)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	listen, _ := cmd.Flags().GetString("listen")
	lis, err := net.Listen("tcp", listen)
	if err != nil {
		return err
	}
	defer lis.Close()

	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(rpcs.intercept)}
	if n, _ := cmd.Flags().GetInt("max-msg-bytes"); n > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(n), grpc.MaxSendMsgSize(n))
	}
	s := grpc.NewServer(opts...)
	execsvc.RegisterExecutorServer(s, &execsvc.Server{Log: log})
	grpccas.RegisterArtifactStoreServer(s, &grpccas.Server{CAS: store})

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	backend, _ := cmd.Flags().GetString("backend")
	fmt.Fprintf(stderr, "opbench listening on %s (backend=%s)\n", lis.Addr().String(), backend)
	return s.Serve(lis)
}

// rpcMetrics counts and times unary calls by method and status code.
type rpcMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newRPCMetrics() *rpcMetrics {
	return &rpcMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zkbench",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Unary gRPC calls handled",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zkbench",
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "Unary gRPC call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

func (m *rpcMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requests.Describe(ch)
	m.latency.Describe(ch)
}

func (m *rpcMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requests.Collect(ch)
	m.latency.Collect(ch)
}

func (m *rpcMetrics) intercept(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	m.latency.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	m.requests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	return resp, err
}
