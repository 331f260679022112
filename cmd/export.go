package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/groundsignal/leadradar/internal/export"
	sfpkg "github.com/groundsignal/leadradar/pkg/salesforce"
)

var exportLimit int

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export top-priority stored leads to Salesforce",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		client, err := initSalesforce()
		if err != nil {
			return err
		}

		leads, err := env.Store.ListLeads(cmd.Context(), exportLimit)
		if err != nil {
			return err
		}

		summary, err := export.NewSalesforceExporter(client).ExportLeads(cmd.Context(), leads)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (LEADRADAR_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	return sfpkg.Connect(
		cfg.Salesforce.LoginURL,
		cfg.Salesforce.Username,
		cfg.Salesforce.ClientID,
		string(pemData),
		sfpkg.WithRateLimit(cfg.Salesforce.RateRPS),
	)
}

func init() {
	exportCmd.Flags().IntVar(&exportLimit, "limit", 100, "maximum leads to export")
	rootCmd.AddCommand(exportCmd)
}
