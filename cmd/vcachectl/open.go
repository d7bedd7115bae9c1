package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcached-io/vcached/dbconfig"
)

var (
	openMode string
	openDims int
	openURI  string
)

var openCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Register a new named database",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().StringVar(&openMode, "mode", "L2NORM", "similarity mode: L2NORM or COSINE")
	openCmd.Flags().IntVar(&openDims, "dims", 0, "vector dimension")
	openCmd.Flags().StringVar(&openURI, "uri", "", "record store directory (defaults to ~/.vcached/<name>)")
	_ = openCmd.MarkFlagRequired("dims")
}

func runOpen(cmd *cobra.Command, args []string) error {
	name := args[0]

	reg, err := openRegistry()
	if err != nil {
		return err
	}

	uri := openURI
	if uri == "" {
		uri = defaultRecordsDir(name)
	}

	if err := reg.Append(name, dbconfig.DatabaseConfig{Type: "flat", Mode: openMode, Dims: openDims, URI: uri}); err != nil {
		return err
	}

	fmt.Printf("database %q registered (mode=%s dims=%d uri=%s)\n", name, openMode, openDims, uri)

	return nil
}
