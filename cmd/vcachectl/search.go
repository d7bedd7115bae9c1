package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchVector []float64
	searchN      int
)

var searchCmd = &cobra.Command{
	Use:   "search <database>",
	Short: "Find the single nearest vector",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var searchNCmd = &cobra.Command{
	Use:   "search-n <database>",
	Short: "Find the n nearest vectors, best first",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchN,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(searchNCmd)

	searchCmd.Flags().Float64SliceVar(&searchVector, "vector", nil, "query vector components, comma-separated")
	_ = searchCmd.MarkFlagRequired("vector")

	searchNCmd.Flags().Float64SliceVar(&searchVector, "vector", nil, "query vector components, comma-separated")
	searchNCmd.Flags().IntVar(&searchN, "n", 10, "number of results")
	_ = searchNCmd.MarkFlagRequired("vector")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, err := openDatabase(ctx, args[0])
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	m, err := db.Search(ctx, toFloat32(searchVector))
	if err != nil {
		return err
	}

	fmt.Printf("%s\t%f\n", m.ExternalID, m.Score)

	return nil
}

func runSearchN(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, err := openDatabase(ctx, args[0])
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	results, err := db.SearchN(ctx, toFloat32(searchVector), searchN)
	if err != nil {
		return err
	}

	for _, m := range results {
		if m.ExternalID == "" {
			continue
		}

		fmt.Printf("%s\t%f\n", m.ExternalID, m.Score)
	}

	return nil
}
