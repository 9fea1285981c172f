// auctionctl is the thin command-line client for the auction host: it
// sends one request per invocation over the host's socket protocol and
// prints the response.
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	hostAddr    string
	dialTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "auctionctl",
	Short: "Auction host command-line client",
	Long: `auctionctl talks to a running auction host.

Commands place bids, close the auction and retract escrowed funds;
queries read auction state without mutating it. Each invocation opens
one connection, sends one request and prints the JSON response.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hostAddr, "addr", "127.0.0.1:5000", "auction host TCP address")
	rootCmd.PersistentFlags().DurationVar(&dialTimeout, "timeout", 10*time.Second, "dial and response timeout")
}

// roundTrip sends one request to the host and decodes the raw JSON
// response. The host reads until EOF, so the write side is closed before
// reading.
func roundTrip(request any) (json.RawMessage, error) {
	conn, err := net.DialTimeout("tcp", hostAddr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to host %s: %w", hostAddr, err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(dialTimeout))

	if err := json.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return nil, fmt.Errorf("close write side: %w", err)
		}
	}

	var response json.RawMessage
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return response, nil
}

// runRequest is the shared RunE body: round-trip the request and
// pretty-print whatever came back.
func runRequest(request any) error {
	response, err := roundTrip(request)
	if err != nil {
		return err
	}
	return printJSON(response)
}

func printJSON(raw json.RawMessage) error {
	var indented any
	if err := json.Unmarshal(raw, &indented); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(indented)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
