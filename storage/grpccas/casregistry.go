package grpccas

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/essential-contributions/zk-benchmarks/storage"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"
)

// Registry option keys.
const (
	OptionTarget      = "grpc-target"
	OptionDialTimeout = "grpc-dial-timeout"
	OptionTimeout     = "grpc-timeout"
	OptionMaxMsgBytes = "grpc-max-msg-bytes"
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "grpc",
		Description: "Remote artifact store (opbench serve)",
		Usage:       casregistry.UsageCLI,
		Options: []casregistry.Option{
			{Key: OptionTarget, Help: "artifact store host:port"},
			{Key: OptionDialTimeout, Default: "5s", Help: "dial timeout"},
			{Key: OptionTimeout, Default: "0s", Help: "per-RPC timeout, 0 for none"},
			{Key: OptionMaxMsgBytes, Default: "0", Help: "max gRPC message size in bytes, 0 for the gRPC default"},
		},
		Open: open,
	})
}

func open(ctx context.Context, opts casregistry.Options) (storage.CAS, func() error, error) {
	target := opts.Get(OptionTarget)
	if target == "" {
		return nil, nil, fmt.Errorf("grpccas: missing --%s", OptionTarget)
	}
	dialTimeout, err := time.ParseDuration(opts.Get(OptionDialTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("grpccas: --%s: %w", OptionDialTimeout, err)
	}
	timeout, err := time.ParseDuration(opts.Get(OptionTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("grpccas: --%s: %w", OptionTimeout, err)
	}
	maxMsg, err := strconv.Atoi(opts.Get(OptionMaxMsgBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("grpccas: --%s: %w", OptionMaxMsgBytes, err)
	}

	client, err := Dial(ctx, target, DialOptions{Timeout: dialTimeout, MaxMsgBytes: maxMsg})
	if err != nil {
		return nil, nil, err
	}
	client.Timeout = timeout
	return client, client.Close, nil
}
