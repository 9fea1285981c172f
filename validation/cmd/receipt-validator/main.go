package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/thejohanmagnusson/bidding-contract/hostapi"
	"github.com/thejohanmagnusson/bidding-contract/validation"
)

func main() {
	// Define CLI flags
	var (
		receiptInput = flag.String("receipt", "", "Base64 COSE_Sign1 receipt (file path or inline)")
		keyInput     = flag.String("public-key", "", "Host verification key (PEM file path or inline)")
		outputFormat = flag.String("format", "text", "Output format: text or json")
		help         = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	if *help {
		showUsage()
		os.Exit(0)
	}

	if *receiptInput == "" || *keyInput == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: Both inputs are required (--receipt, --public-key)\n")
		os.Exit(1)
	}

	receipt, err := readInput(*receiptInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading receipt: %v\n", err)
		os.Exit(2)
	}

	publicKey, err := readInput(*keyInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading public key: %v\n", err)
		os.Exit(2)
	}

	payload, err := validation.VerifyReceipt(strings.TrimSpace(receipt), publicKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(1)
	}

	if *outputFormat == "json" {
		outputJSON(payload)
	} else {
		outputText(payload)
	}
	os.Exit(0)
}

// readInput accepts either a file path or the inline value itself.
func readInput(input string) (string, error) {
	if _, err := os.Stat(input); err == nil {
		raw, err := os.ReadFile(input)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return input, nil
}

func outputText(payload *hostapi.ReceiptPayload) {
	fmt.Println("Receipt signature: VALID")
	fmt.Printf("Receipt ID: %s\n", payload.ReceiptID)
	fmt.Printf("Action:     %s\n", payload.Action)
	fmt.Printf("Sender:     %s\n", payload.Sender)
	fmt.Printf("Timestamp:  %s\n", payload.Timestamp)
	for _, attr := range payload.Attributes {
		fmt.Printf("Attribute:  %s=%s\n", attr.Key, attr.Value)
	}
	for _, tr := range payload.Transfers {
		for _, coin := range tr.Amount {
			fmt.Printf("Transfer:   %s %s -> %s\n", coin.Amount.String(), coin.Denom, tr.ToAddress)
		}
	}
}

func outputJSON(payload *hostapi.ReceiptPayload) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		os.Exit(2)
	}
}

func showUsage() {
	fmt.Println("Auction Receipt Validator")
	fmt.Println()
	fmt.Println("Verifies a signed command receipt against the host's public key.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  receipt-validator --receipt <receipt> --public-key <key> [options]")
	fmt.Println()
	fmt.Println("Required Flags:")
	fmt.Println("  --receipt <receipt>       Base64 COSE_Sign1 receipt from a command response")
	fmt.Println("  --public-key <key>        PEM-encoded ECDSA verification key")
	fmt.Println()
	fmt.Println("Optional Flags:")
	fmt.Println("  --format <text|json>      Output format (default: text)")
	fmt.Println("  --help                    Show this help message")
	fmt.Println()
	fmt.Println("Input Format:")
	fmt.Println("  Each flag accepts either a file path or the inline value.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  receipt-validator --receipt receipt.b64 --public-key host.pem")
	fmt.Println("  receipt-validator --receipt \"hEOhASZB...\" --public-key host.pem --format json")
}
