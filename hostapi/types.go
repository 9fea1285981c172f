// Package hostapi defines the wire types spoken between the auction host
// and its clients: one typed request per command and query, response
// envelopes with success/error detail, and the signed receipt payload.
package hostapi

import (
	"time"

	"github.com/thejohanmagnusson/bidding-contract/core"
)

// Request type tags. The host dispatches on the tag with an explicit switch;
// each tag has exactly one request struct.
const (
	TypePing       = "ping"
	TypeBid        = "bid"
	TypeClose      = "close"
	TypeRetract    = "retract"
	TypeAuction    = "auction"
	TypeBids       = "bids"
	TypeHighestBid = "highest_bid"
	TypeWinner     = "winner"
	TypeBalances   = "balances"
)

// BaseRequest is decoded first to select the full request type.
type BaseRequest struct {
	Type string `json:"type"`
}

// BidRequest places a bid with attached funds.
type BidRequest struct {
	Type   string      `json:"type"`
	Sender string      `json:"sender"`
	Funds  []core.Coin `json:"funds"`
}

// CloseRequest ends the auction. Owner only.
type CloseRequest struct {
	Type   string `json:"type"`
	Sender string `json:"sender"`
}

// RetractRequest withdraws escrowed funds after closing. Receiver defaults
// to the sender when empty.
type RetractRequest struct {
	Type     string `json:"type"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver,omitempty"`
}

// BidsRequest queries the escrow ledger entry of one address.
type BidsRequest struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// BalancesRequest queries the bank balances of one address.
type BalancesRequest struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// CommandResponse is the envelope for bid, close and retract.
type CommandResponse struct {
	Type           string           `json:"type"`
	Success        bool             `json:"success"`
	Error          *ErrorDetail     `json:"error,omitempty"`
	Transfers      []core.Transfer  `json:"transfers,omitempty"`
	Attributes     []core.Attribute `json:"attributes,omitempty"`
	Receipt        string           `json:"receipt,omitempty"` // base64 COSE_Sign1
	ProcessingTime int64            `json:"processing_time_ms"`
}

// AuctionResponse answers the auction info query.
type AuctionResponse struct {
	Type    string            `json:"type"`
	Success bool              `json:"success"`
	Error   *ErrorDetail      `json:"error,omitempty"`
	Auction *core.AuctionInfo `json:"auction,omitempty"`
}

// CoinResponse answers the bids-by-address query.
type CoinResponse struct {
	Type    string       `json:"type"`
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Coin    *core.Coin   `json:"coin,omitempty"`
}

// BidRecordResponse answers the highest-bid and winner queries.
type BidRecordResponse struct {
	Type    string       `json:"type"`
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Bid     *core.Bid    `json:"bid,omitempty"`
}

// BalancesResponse answers the bank balances query.
type BalancesResponse struct {
	Type     string       `json:"type"`
	Success  bool         `json:"success"`
	Error    *ErrorDetail `json:"error,omitempty"`
	Balances []core.Coin  `json:"balances"`
}

// PingResponse answers a health probe.
type PingResponse struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ReceiptPayload is the JSON payload carried inside a signed COSE_Sign1
// command receipt. It records what the host executed, not queryable state.
type ReceiptPayload struct {
	ReceiptID  string           `json:"receipt_id"`
	Action     string           `json:"action"`
	Sender     string           `json:"sender"`
	Attributes []core.Attribute `json:"attributes"`
	Transfers  []core.Transfer  `json:"transfers"`
	Timestamp  time.Time        `json:"timestamp"`
}
