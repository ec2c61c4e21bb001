package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/essential-contributions/zk-benchmarks/guest"
)

func newExecCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <input-file>",
		Short: "Run the guest on an input buffer and print its output",
		Long: `Exec runs the guest once on the input file ("-" reads stdin) and prints
the committed digest and iteration count. With --executor the input runs on a
remote executor instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args[0], stdout, stderr)
		},
	}
	cmd.Flags().String("executor", "", "Remote executor address (host:port)")
	return cmd
}

func runExec(cmd *cobra.Command, path string, stdout, stderr io.Writer) error {
	input, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("executor")
	backend, closeBackend, err := openBackend(cmd.Context(), addr)
	if err != nil {
		return err
	}
	defer closeBackend()

	proof, err := backend.Prove(cmd.Context(), input)
	if err != nil {
		if rule := guest.RuleID(err); rule != "" {
			fmt.Fprintf(stderr, "rule %s\n", rule)
		}
		return err
	}
	out, err := proof.Outputs()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "digest %s\niterations %d\n", hex.EncodeToString(out.Digest[:]), out.Iterations)
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
