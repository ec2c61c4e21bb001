package localfs

import (
	"context"
	"fmt"

	"github.com/essential-contributions/zk-benchmarks/storage"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"
)

// OptionDir is the registry option holding the store directory.
const OptionDir = "localfs-dir"

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "localfs",
		Description: "Directory on the local filesystem",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		Options: []casregistry.Option{
			{Key: OptionDir, Help: "artifact directory"},
		},
		Open: func(_ context.Context, opts casregistry.Options) (storage.CAS, func() error, error) {
			dir := opts.Get(OptionDir)
			if dir == "" {
				return nil, nil, fmt.Errorf("localfs: missing --%s", OptionDir)
			}
			cas, err := New(dir)
			if err != nil {
				return nil, nil, err
			}
			return cas, nil, nil
		},
	})
}
