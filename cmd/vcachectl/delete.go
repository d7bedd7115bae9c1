package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <database> <id>",
	Short: "Delete a vector by its external ID",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, err := openDatabase(ctx, args[0])
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.Delete(ctx, args[1]); err != nil {
		return err
	}

	fmt.Printf("deleted %s\n", args[1])

	return nil
}
