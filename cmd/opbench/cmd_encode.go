package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/essential-contributions/zk-benchmarks/bench"
	"github.com/essential-contributions/zk-benchmarks/guest"
	"github.com/essential-contributions/zk-benchmarks/keys"
)

func newEncodeCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Write the guest input buffer of one workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEncode(cmd, stdout, stderr)
		},
	}
	cmd.Flags().String("op", "", "Workload: hash, signature or merkle")
	cmd.Flags().Uint32("repeat", 1, "Number of entries")
	cmd.Flags().Uint32("chunk-size", bench.DefaultChunkSize, "Chunk size for hash inputs")
	cmd.Flags().String("message", bench.DefaultMessage, "Signed message for signature inputs")
	cmd.Flags().String("digest", "sha256", "Message digest for signature inputs: sha256 or sha3-256")
	cmd.Flags().Uint8("seed-byte", keys.DefaultSeedByte, "First byte of the signing key seed chain")
	cmd.Flags().StringP("out", "o", "-", "Output file, - for stdout")
	_ = cmd.MarkFlagRequired("op")
	return cmd
}

func runEncode(cmd *cobra.Command, stdout, stderr io.Writer) error {
	flags := cmd.Flags()
	w := bench.Workload{}
	w.Op, _ = flags.GetString("op")
	w.Repeat, _ = flags.GetUint32("repeat")
	w.ChunkSize, _ = flags.GetUint32("chunk-size")
	w.Message, _ = flags.GetString("message")
	w.Digest, _ = flags.GetString("digest")
	seed, _ := flags.GetUint8("seed-byte")
	w.SeedByte = &seed

	job, err := w.Job()
	if err != nil {
		return err
	}
	input, err := guest.Encode(job)
	if err != nil {
		return err
	}

	out, _ := flags.GetString("out")
	if out == "-" {
		_, err = stdout.Write(input)
		return err
	}
	if err := os.WriteFile(out, input, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "wrote %d bytes (%s, repeat %d) to %s\n", len(input), job.Op(), job.Count(), out)
	return nil
}
