package main

import (
	"github.com/spf13/cobra"

	"github.com/thejohanmagnusson/bidding-contract/hostapi"
)

var (
	bidsAddress     string
	balancesAddress string
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the host is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(hostapi.BaseRequest{Type: hostapi.TypePing})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the auction parameters and open/closed state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(hostapi.BaseRequest{Type: hostapi.TypeAuction})
	},
}

var bidsCmd = &cobra.Command{
	Use:   "bids",
	Short: "Show the escrowed total of one address",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(hostapi.BidsRequest{
			Type:    hostapi.TypeBids,
			Address: bidsAddress,
		})
	},
}

var highestBidCmd = &cobra.Command{
	Use:   "highest-bid",
	Short: "Show the current highest bid",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(hostapi.BaseRequest{Type: hostapi.TypeHighestBid})
	},
}

var winnerCmd = &cobra.Command{
	Use:   "winner",
	Short: "Show the provisional winner while bidding is open",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(hostapi.BaseRequest{Type: hostapi.TypeWinner})
	},
}

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show the bank balances of one address",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(hostapi.BalancesRequest{
			Type:    hostapi.TypeBalances,
			Address: balancesAddress,
		})
	},
}

func init() {
	bidsCmd.Flags().StringVar(&bidsAddress, "address", "", "bidder address (required)")
	_ = bidsCmd.MarkFlagRequired("address")

	balancesCmd.Flags().StringVar(&balancesAddress, "address", "", "account address (required)")
	_ = balancesCmd.MarkFlagRequired("address")

	rootCmd.AddCommand(pingCmd, infoCmd, bidsCmd, highestBidCmd, winnerCmd, balancesCmd)
}
