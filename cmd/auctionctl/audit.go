package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/thejohanmagnusson/bidding-contract/audit"
)

var auditDBPath string

var auditSummaryCmd = &cobra.Command{
	Use:   "audit-summary",
	Short: "Summarize a host audit database",
	Long: `Summarize the host's sqlite audit trail: command counts per
action and total and mean commission across all bids. Reads the database
file directly, so the host does not need to be running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := audit.Open(auditDBPath)
		if err != nil {
			return err
		}
		defer log.Close()

		summary, err := log.Summarize()
		if err != nil {
			return err
		}
		raw, err := json.Marshal(summary)
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

func init() {
	auditSummaryCmd.Flags().StringVar(&auditDBPath, "db", "", "audit database path (required)")
	_ = auditSummaryCmd.MarkFlagRequired("db")

	rootCmd.AddCommand(auditSummaryCmd)
}
