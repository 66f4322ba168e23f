package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register address...",
	Short: "Register peer nodes by their private host",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}

		return call(cmd, http.MethodPost, privateURL+"/nodes/register", req)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Replace the node's chain with the longest valid peer chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, privateURL+"/nodes/resolve", nil)
	},
}

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "List the node's known peers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, privateURL+"/nodes/list", nil)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(peersCmd)
}
