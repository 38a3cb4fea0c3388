// Package cli provides the command-line interface for bulkload.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bulkload/internal/cli/commands"

	// Register the built-in dialect compilers.
	_ "github.com/leapstack-labs/bulkload/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/bulkload/pkg/dialects/hive"
	_ "github.com/leapstack-labs/bulkload/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/bulkload/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/bulkload/pkg/dialects/redshift"
	_ "github.com/leapstack-labs/bulkload/pkg/dialects/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bulkload",
		Short: "bulkload - engine-native bulk CSV loading",
		Long: `bulkload appends delimited-text files to existing relational tables
using each engine's fast-path loader (sqlite3 .import, LOAD DATA INFILE,
COPY FROM, warehouse COPY from object storage) instead of row-by-row
inserts.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default bulkload.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(commands.NewLoadCmd())
	rootCmd.AddCommand(commands.NewDialectsCmd())
	rootCmd.AddCommand(commands.NewVersionCmd(Version, BuildDate, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
