package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/spf13/cobra"

	"github.com/essential-contributions/zk-benchmarks/cidutil"
	"github.com/essential-contributions/zk-benchmarks/storage/bundle"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"
	"github.com/essential-contributions/zk-benchmarks/zkvm"
)

func newFixtureCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Fetch, inspect and move proof fixtures",
	}
	cmd.AddCommand(
		newFixtureGetCmd(stdout),
		newFixtureInspectCmd(stdout),
		newFixtureExportCmd(stderr),
		newFixtureImportCmd(stdout),
	)
	return cmd
}

func newFixtureGetCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <cid>",
		Short: "Print a stored fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cidutil.Parse(args[0])
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cmd.Context(), cmd, casregistry.UsageCLI, casregistry.Config{})
			if err != nil {
				return err
			}
			defer closeStore()

			b, err := store.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("fixture %s: %w", id, err)
			}
			f, err := zkvm.ParseFixture(b)
			if err != nil {
				return err
			}
			out, err := f.Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(stdout, "%s\n", out)
			return err
		},
	}
}

func newFixtureInspectCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode the public values of a fixture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			f, err := zkvm.ParseFixture(b)
			if err != nil {
				return err
			}
			proof, err := f.ProofValue()
			if err != nil {
				return err
			}
			out, err := proof.Outputs()
			if err != nil {
				return err
			}
			digest := zkvm.PublicValuesDigest(proof.PublicValues)
			fmt.Fprintf(stdout, "vkey        %s\n", proof.VKey.Hex())
			fmt.Fprintf(stdout, "mode        %s\n", proof.Mode)
			fmt.Fprintf(stdout, "digest      %s\n", hex.EncodeToString(out.Digest[:]))
			fmt.Fprintf(stdout, "iterations  %d\n", out.Iterations)
			fmt.Fprintf(stdout, "pv digest   %s\n", hex.EncodeToString(digest[:]))
			return nil
		},
	}
}

func newFixtureExportCmd(stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <cid>...",
		Short: "Write stored artifacts to a tar bundle",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")
			rawLabels, _ := cmd.Flags().GetStringArray("label")

			ids := make([]cid.Cid, 0, len(args))
			for _, a := range args {
				id, err := cidutil.Parse(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			labels, err := parseLabels(rawLabels)
			if err != nil {
				return err
			}
			if len(ids) == 0 && len(labels) == 0 {
				return errors.New("nothing to export: give CIDs or --label")
			}

			store, closeStore, err := openStore(cmd.Context(), cmd, casregistry.UsageCLI, casregistry.Config{})
			if err != nil {
				return err
			}
			defer closeStore()

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := bundle.Export(cmd.Context(), f, store, ids, bundle.ExportOptions{Labels: labels}); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(stderr, "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Bundle file to write")
	cmd.Flags().StringArray("label", nil, "Label an artifact: name=cid (repeatable)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newFixtureImportCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "import <bundle>",
		Short: "Copy the artifacts of a tar bundle into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd.Context(), cmd, casregistry.UsageCLI, casregistry.Config{})
			if err != nil {
				return err
			}
			defer closeStore()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			idx, ids, err := bundle.Import(cmd.Context(), f, store, bundle.ImportOptions{})
			if err != nil {
				return err
			}
			for _, l := range idx.Labels {
				fmt.Fprintf(stdout, "%s\t%s\n", l.Name, l.CID)
			}
			fmt.Fprintf(stdout, "imported %d artifacts\n", len(ids))
			return nil
		},
	}
}

func parseLabels(items []string) (map[string]cid.Cid, error) {
	labels := make(map[string]cid.Cid, len(items))
	for _, item := range items {
		name, raw, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --label %q: want name=cid", item)
		}
		id, err := cidutil.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid --label %q: %w", item, err)
		}
		labels[strings.TrimSpace(name)] = id
	}
	return labels, nil
}
