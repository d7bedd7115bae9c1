// Command vcachectl is the command-line front end for the vector cache, for
// local and scripted use: it registers databases (open) and lists them
// (list), and runs the insert/search/search-n/delete operations the HTTP
// surface also exposes, plus a YAML bulk insert (insert-file).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vcached-io/vcached/dbconfig"
)

var rootCmd = &cobra.Command{
	Use:   "vcachectl",
	Short: "vcachectl manages and queries vcached vector databases",
}

var configPath string

func init() {
	defaultPath, _ := dbconfig.DefaultPath()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "path to the database registry config file")
}

func openRegistry() (*dbconfig.Registry, error) {
	return dbconfig.Open(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
