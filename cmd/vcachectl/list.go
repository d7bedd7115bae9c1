package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered databases",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	for _, name := range reg.List() {
		cfg, _ := reg.Get(name)
		fmt.Printf("%s\tmode=%s\tdims=%d\turi=%s\n", name, cfg.Mode, cfg.Dims, cfg.URI)
	}

	return nil
}
