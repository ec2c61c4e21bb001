// opbench benchmarks the zkVM guest workloads, serves the remote executor
// and moves benchmark artifacts between stores.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/essential-contributions/zk-benchmarks/logging"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"

	_ "github.com/essential-contributions/zk-benchmarks/storage/grpccas"
	_ "github.com/essential-contributions/zk-benchmarks/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errExit signals a non-zero exit after the command already reported why.
var errExit = errors.New("exit")

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "opbench: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "opbench",
		Short:         "zkVM guest workload benchmarks",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			fmt.Fprintf(stderr, "opbench: unknown command %q\n", args[0])
			return errExit
		},
	}
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("backend", "memory", "Artifact store backend (see list-backends)")

	// Backend options are plain flag.Values owned by casregistry.
	goFlags := flag.NewFlagSet("opbench", flag.ContinueOnError)
	casregistry.RegisterFlags(goFlags, casregistry.UsageCLI|casregistry.UsageDaemon)
	root.PersistentFlags().AddGoFlagSet(goFlags)

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("log-level")
		lvl, err := logging.ParseLevel(name)
		if err != nil {
			return err
		}
		logging.Base().SetLevel(lvl)
		logging.Base().SetOutput(stderr)
		return nil
	}

	root.AddCommand(
		newRunCmd(stdout, stderr),
		newEncodeCmd(stdout, stderr),
		newExecCmd(stdout, stderr),
		newServeCmd(stderr),
		newFixtureCmd(stdout, stderr),
		newListBackendsCmd(stdout),
	)
	return root
}

func newListBackendsCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-backends",
		Short: "List the artifact store backends and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			daemon, _ := cmd.Flags().GetBool("daemon")
			usage := casregistry.UsageCLI
			if daemon {
				usage = casregistry.UsageDaemon
			}
			for _, b := range casregistry.List(usage) {
				if b.Description == "" {
					fmt.Fprintln(stdout, b.Name)
				} else {
					fmt.Fprintf(stdout, "%s\t%s\n", b.Name, b.Description)
				}
				for _, o := range b.Options {
					fmt.Fprintf(stdout, "  --%s\t%s\n", o.Key, o.Help)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("daemon", false, "List the backends \"serve\" accepts")
	return cmd
}
