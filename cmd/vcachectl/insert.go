package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var insertVector []float64

var insertCmd = &cobra.Command{
	Use:   "insert <database>",
	Short: "Insert a single vector",
	Args:  cobra.ExactArgs(1),
	RunE:  runInsert,
}

var insertFile string

var insertFileCmd = &cobra.Command{
	Use:   "insert-file <database>",
	Short: "Bulk-insert vectors from a YAML file",
	Long:  "Reads a YAML file of the form `vectors: [[...], [...]]` and inserts each one.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInsertFile,
}

func init() {
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(insertFileCmd)

	insertCmd.Flags().Float64SliceVar(&insertVector, "vector", nil, "vector components, comma-separated")
	_ = insertCmd.MarkFlagRequired("vector")

	insertFileCmd.Flags().StringVar(&insertFile, "file", "", "path to the YAML bulk-insert file")
	_ = insertFileCmd.MarkFlagRequired("file")
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}

	return out
}

func runInsert(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, err := openDatabase(ctx, args[0])
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	id, err := db.Insert(ctx, toFloat32(insertVector), nil)
	if err != nil {
		return err
	}

	fmt.Println(id)

	return nil
}

// bulkInsertFile is the YAML shape insert-file reads.
type bulkInsertFile struct {
	Vectors [][]float64 `yaml:"vectors"`
}

func runInsertFile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(insertFile)
	if err != nil {
		return err
	}

	var bulk bulkInsertFile
	if err := yaml.Unmarshal(data, &bulk); err != nil {
		return err
	}

	db, err := openDatabase(ctx, args[0])
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	inserted := 0

	for _, v := range bulk.Vectors {
		id, err := db.Insert(ctx, toFloat32(v), nil)
		if err != nil {
			return fmt.Errorf("insert vector %d: %w", inserted, err)
		}

		fmt.Println(id)
		inserted++
	}

	fmt.Fprintf(os.Stderr, "inserted %d vectors\n", inserted)

	return nil
}
