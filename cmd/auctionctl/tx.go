package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thejohanmagnusson/bidding-contract/core"
	"github.com/thejohanmagnusson/bidding-contract/hostapi"
)

var (
	bidSender string
	bidAmount string
	bidDenom  string

	closeSender string

	retractSender   string
	retractReceiver string
)

var bidCmd = &cobra.Command{
	Use:   "bid",
	Short: "Place a bid with attached funds",
	Long: `Place a bid. The attached funds are escrowed by the host; the
commission share is paid to the auction owner immediately.

Examples:
  auctionctl bid --sender alice --amount 20 --denom atom
  auctionctl bid --sender bob --amount 35 --denom atom --addr 10.0.0.5:5000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := core.UintFromString(bidAmount)
		if err != nil {
			return fmt.Errorf("invalid bid amount %q: %w", bidAmount, err)
		}
		return runRequest(hostapi.BidRequest{
			Type:   hostapi.TypeBid,
			Sender: bidSender,
			Funds:  []core.Coin{{Denom: bidDenom, Amount: amount}},
		})
	},
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the auction (owner only)",
	Long: `Close the auction. Only the owner may close; the winning escrow
is transferred to the owner and bidding ends permanently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(hostapi.CloseRequest{
			Type:   hostapi.TypeClose,
			Sender: closeSender,
		})
	},
}

var retractCmd = &cobra.Command{
	Use:   "retract",
	Short: "Retract escrowed funds after the auction closed",
	Long: `Retract a losing bidder's escrowed funds. Only available once
the auction is closed; the winner cannot retract. An optional receiver
redirects the payout.

Examples:
  auctionctl retract --sender alice
  auctionctl retract --sender alice --receiver cold-wallet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(hostapi.RetractRequest{
			Type:     hostapi.TypeRetract,
			Sender:   retractSender,
			Receiver: retractReceiver,
		})
	},
}

func init() {
	bidCmd.Flags().StringVar(&bidSender, "sender", "", "bidder address (required)")
	bidCmd.Flags().StringVar(&bidAmount, "amount", "", "bid amount (required)")
	bidCmd.Flags().StringVar(&bidDenom, "denom", "", "bid denomination (required)")
	_ = bidCmd.MarkFlagRequired("sender")
	_ = bidCmd.MarkFlagRequired("amount")
	_ = bidCmd.MarkFlagRequired("denom")

	closeCmd.Flags().StringVar(&closeSender, "sender", "", "owner address (required)")
	_ = closeCmd.MarkFlagRequired("sender")

	retractCmd.Flags().StringVar(&retractSender, "sender", "", "bidder address (required)")
	retractCmd.Flags().StringVar(&retractReceiver, "receiver", "", "alternate payout address")
	_ = retractCmd.MarkFlagRequired("sender")

	rootCmd.AddCommand(bidCmd, closeCmd, retractCmd)
}
