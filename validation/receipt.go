// Package validation verifies signed command receipts offline: anyone
// holding the host's public key can check that a receipt was produced by
// the host and read the command it records.
package validation

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"

	"github.com/thejohanmagnusson/bidding-contract/hostapi"
)

// ExtractReceiptPayload extracts the payload from a COSE_Sign1 receipt
// without verifying the signature.
// COSE_Sign1 structure: [protected, unprotected, payload, signature]
func ExtractReceiptPayload(coseBytes []byte) ([]byte, error) {
	var coseArray []any
	err := cbor.Unmarshal(coseBytes, &coseArray)
	if err != nil {
		return nil, fmt.Errorf("parse COSE array: %w", err)
	}

	if len(coseArray) != 4 {
		return nil, fmt.Errorf("invalid COSE_Sign1 structure: expected 4 elements, got %d", len(coseArray))
	}

	payload, ok := coseArray[2].([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid payload in COSE structure")
	}

	return payload, nil
}

// ParsePublicKey parses the PEM-encoded ECDSA verification key published
// by the host.
func ParsePublicKey(publicKeyPEM string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("not a PEM public key")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	ecdsaKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not ECDSA")
	}
	return ecdsaKey, nil
}

// VerifyReceipt checks a base64 COSE_Sign1 receipt signature against the
// host's public key and returns the decoded payload. Receipts are signed
// with ES256.
func VerifyReceipt(receiptB64 string, publicKeyPEM string) (*hostapi.ReceiptPayload, error) {
	coseBytes, err := base64.StdEncoding.DecodeString(receiptB64)
	if err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}

	ecdsaKey, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return nil, err
	}

	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(coseBytes); err != nil {
		return nil, fmt.Errorf("parse COSE_Sign1: %w", err)
	}

	verifier, err := cose.NewVerifier(cose.AlgorithmES256, ecdsaKey)
	if err != nil {
		return nil, fmt.Errorf("create verifier: %w", err)
	}
	if err := msg.Verify(nil, verifier); err != nil {
		return nil, fmt.Errorf("receipt signature verification failed: %w", err)
	}

	var payload hostapi.ReceiptPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("parse receipt payload: %w", err)
	}
	return &payload, nil
}
