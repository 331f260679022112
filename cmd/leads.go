package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var leadsLimit int

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads ranked by priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		leads, err := env.Store.ListLeads(cmd.Context(), leadsLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(leads)
	},
}

func init() {
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 50, "maximum leads to list")
	rootCmd.AddCommand(leadsCmd)
}
