package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions into a block",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, publicURL+"/mine", nil)
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Show the node's chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, publicURL+"/chain", nil)
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show the transactions waiting for the next block",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, publicURL+"/transactions/pending", nil)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(pendingCmd)
}
