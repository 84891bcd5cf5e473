// Package cli implements the loanctl operator commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "loanctl",
	Short:         "Loan administration tools",
	Long:          `Operator tools for the loan back office: print amortization schedules and run notification scans.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
