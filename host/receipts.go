package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/veraison/go-cose"

	"github.com/thejohanmagnusson/bidding-contract/core"
	"github.com/thejohanmagnusson/bidding-contract/hostapi"
)

// ReceiptSigner signs command receipts. The interface exists for testing
// with a fixed key.
type ReceiptSigner interface {
	Sign(payload []byte) ([]byte, error)
	PublicKeyPEM() (string, error)
}

// ecdsaReceiptSigner signs COSE_Sign1 receipts with a local ES256 key.
type ecdsaReceiptSigner struct {
	key *ecdsa.PrivateKey
}

// NewReceiptSigner loads the EC private key at path, or generates an
// ephemeral key when path is empty.
func NewReceiptSigner(path string) (ReceiptSigner, error) {
	if path == "" {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate receipt key: %w", err)
		}
		return &ecdsaReceiptSigner{key: key}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read receipt key %s: %w", path, err)
	}
	block, _ := pem.Decode(raw)
	if block == nil || block.Type != "EC PRIVATE KEY" {
		return nil, fmt.Errorf("receipt key %s: not a PEM EC private key", path)
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse receipt key %s: %w", path, err)
	}
	return &ecdsaReceiptSigner{key: key}, nil
}

// Sign wraps the payload in a COSE_Sign1 envelope signed with ES256.
func (s *ecdsaReceiptSigner) Sign(payload []byte) ([]byte, error) {
	signer, err := cose.NewSigner(cose.AlgorithmES256, s.key)
	if err != nil {
		return nil, fmt.Errorf("create COSE signer: %w", err)
	}

	msg := cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelAlgorithm: cose.AlgorithmES256,
			},
		},
		Payload: payload,
	}
	if err := msg.Sign(rand.Reader, nil, signer); err != nil {
		return nil, fmt.Errorf("sign receipt: %w", err)
	}
	return msg.MarshalCBOR()
}

// PublicKeyPEM exports the verification key.
func (s *ecdsaReceiptSigner) PublicKeyPEM() (string, error) {
	derBytes, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	pemBlock := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: derBytes,
	}
	return string(pem.EncodeToMemory(pemBlock)), nil
}

// buildReceipt signs the executed command into a base64 COSE_Sign1
// receipt.
func buildReceipt(signer ReceiptSigner, receiptID, action, sender string, resp *core.Response) (string, error) {
	payload := hostapi.ReceiptPayload{
		ReceiptID:  receiptID,
		Action:     action,
		Sender:     sender,
		Attributes: resp.Attributes,
		Transfers:  resp.Transfers,
		Timestamp:  time.Now().UTC(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal receipt payload: %w", err)
	}
	coseBytes, err := signer.Sign(payloadBytes)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(coseBytes), nil
}
