package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/essential-contributions/zk-benchmarks/storage"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"
)

// openStore opens the store named by --backend. A plan's storage section
// wins unless --backend was given explicitly.
func openStore(ctx context.Context, cmd *cobra.Command, usage casregistry.Usage, plan casregistry.Config) (storage.CAS, func(), error) {
	var (
		cas     storage.CAS
		closeFn func() error
		err     error
	)
	if plan.Enabled() && !cmd.Flags().Changed("backend") {
		cas, closeFn, err = plan.Open(ctx, usage)
	} else {
		name, _ := cmd.Flags().GetString("backend")
		cas, closeFn, err = casregistry.Open(ctx, name, usage)
	}
	if err != nil {
		return nil, nil, err
	}
	return cas, func() {
		if closeFn != nil {
			_ = closeFn()
		}
	}, nil
}
