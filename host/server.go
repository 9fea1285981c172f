package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mdlayher/vsock"

	"github.com/thejohanmagnusson/bidding-contract/audit"
	"github.com/thejohanmagnusson/bidding-contract/core"
	"github.com/thejohanmagnusson/bidding-contract/hostapi"
	"github.com/thejohanmagnusson/bidding-contract/state"
)

// AuctionServer is the serialized host around the auction engine: it owns
// the store, the bank, the receipt signer and the audit log, and guarantees
// that commands never interleave.
type AuctionServer struct {
	cfg    *Config
	store  state.TransactionalStore
	signer ReceiptSigner
	audit  *audit.Log

	// mu serializes command execution. Queries go straight to store.View;
	// both backends synchronize View against concurrent commits internally.
	mu sync.Mutex
}

// NewAuctionServer wires a server from its config.
func NewAuctionServer(cfg *Config) (*AuctionServer, error) {
	var store state.TransactionalStore
	if cfg.DataDir != "" {
		s, err := state.OpenBadger(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		store = s
		log.Printf("INFO: Durable state at %s", cfg.DataDir)
	} else {
		store = state.NewMemStore()
		log.Printf("INFO: Volatile in-memory state (no data_dir configured)")
	}

	signer, err := NewReceiptSigner(cfg.ReceiptKey)
	if err != nil {
		return nil, err
	}

	var auditLog *audit.Log
	if cfg.AuditDB != "" {
		auditLog, err = audit.Open(cfg.AuditDB)
		if err != nil {
			return nil, err
		}
		log.Printf("INFO: Audit trail at %s", cfg.AuditDB)
	}

	return &AuctionServer{
		cfg:    cfg,
		store:  store,
		signer: signer,
		audit:  auditLog,
	}, nil
}

// bootstrap instantiates the auction on first boot and seeds genesis
// balances; a boot against existing state resumes without re-instantiating.
func (s *AuctionServer) bootstrap() error {
	return s.store.Update(func(st state.Store) error {
		eng := core.New(st, addressValidator{})
		done, err := eng.Instantiated()
		if err != nil {
			return err
		}
		if done {
			log.Printf("INFO: Resuming existing auction state")
			return nil
		}

		if _, err := eng.Instantiate(s.cfg.Creator, core.InstantiateMsg{
			Commodity:  s.cfg.Commodity,
			BidAsset:   s.cfg.BidAsset,
			Commission: core.NewUint(s.cfg.Commission),
			Owner:      s.cfg.Owner,
		}); err != nil {
			return fmt.Errorf("instantiate auction: %w", err)
		}
		for _, acct := range s.cfg.Genesis {
			if err := bankMint(st, acct.Address, acct.Coins); err != nil {
				return fmt.Errorf("seed genesis balance for %s: %w", acct.Address, err)
			}
		}
		log.Printf("INFO: Auction instantiated: commodity=%q denom=%s commission=%d%%",
			s.cfg.Commodity, s.cfg.BidAsset.Denom, s.cfg.Commission)
		return nil
	})
}

// listen opens the configured listener: "tcp:<addr>" or "vsock:<port>".
func (s *AuctionServer) listen() (net.Listener, error) {
	switch {
	case strings.HasPrefix(s.cfg.Listen, "tcp:"):
		addr := strings.TrimPrefix(s.cfg.Listen, "tcp:")
		return net.Listen("tcp", addr)
	case strings.HasPrefix(s.cfg.Listen, "vsock:"):
		port, err := strconv.ParseUint(strings.TrimPrefix(s.cfg.Listen, "vsock:"), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vsock port in %q: %w", s.cfg.Listen, err)
		}
		return vsock.Listen(uint32(port), nil)
	default:
		return nil, fmt.Errorf("unsupported listen address %q", s.cfg.Listen)
	}
}

// Start bootstraps state and serves until the listener fails.
func (s *AuctionServer) Start() error {
	if err := s.bootstrap(); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	listener, err := s.listen()
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Printf("ERROR: Failed to close listener: %v", err)
		}
	}()

	log.Printf("INFO: Auction host listening on %s", s.cfg.Listen)
	log.Printf("INFO: Worker pool initialized with %d max concurrent workers", s.cfg.MaxWorkers)
	semaphore := make(chan struct{}, s.cfg.MaxWorkers)

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("ERROR: Failed to accept connection: %v", err)
			continue
		}

		// Acquire worker slot - immediate rejection if pool full
		select {
		case semaphore <- struct{}{}:
			go func(c net.Conn) {
				defer func() { <-semaphore }()
				s.handleConnection(c)
			}(conn)
		default:
			log.Printf("INFO: No workers available, rejecting connection (pool full)")
			if err := conn.Close(); err != nil {
				log.Printf("ERROR: Failed to close rejected connection: %v", err)
			}
		}
	}
}

func (s *AuctionServer) handleConnection(conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: Panic recovered in handleConnection: %v", r)
		}
		if err := conn.Close(); err != nil {
			log.Printf("ERROR: Failed to close connection: %v", err)
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, conn); err != nil {
		log.Printf("ERROR: Failed to read request: %v", err)
		return
	}

	response := s.dispatch(buf.Bytes())

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(response); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

// dispatch decodes the base request and routes it by its type tag. One case
// per command and query; unknown tags are rejected.
func (s *AuctionServer) dispatch(raw []byte) any {
	var base hostapi.BaseRequest
	if err := json.Unmarshal(raw, &base); err != nil {
		log.Printf("ERROR: Failed to decode base request: %v", err)
		return map[string]any{
			"type":    "error",
			"message": fmt.Sprintf("failed to decode request: %v", err),
		}
	}

	log.Printf("INFO: Received request type: %s", base.Type)

	switch base.Type {
	case hostapi.TypePing:
		return hostapi.PingResponse{
			Type:      "pong",
			Message:   "auction host is healthy",
			Timestamp: time.Now().Unix(),
		}

	case hostapi.TypeBid:
		var req hostapi.BidRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return decodeFailure("bid", err)
		}
		return s.execCommand("bid", req.Sender, req.Funds, func(e *core.Engine) (*core.Response, error) {
			return e.ExecBid(req.Sender, req.Funds)
		})

	case hostapi.TypeClose:
		var req hostapi.CloseRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return decodeFailure("close", err)
		}
		return s.execCommand("close", req.Sender, nil, func(e *core.Engine) (*core.Response, error) {
			return e.ExecClose(req.Sender)
		})

	case hostapi.TypeRetract:
		var req hostapi.RetractRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return decodeFailure("retract", err)
		}
		return s.execCommand("retract", req.Sender, nil, func(e *core.Engine) (*core.Response, error) {
			return e.ExecRetract(req.Sender, req.Receiver)
		})

	case hostapi.TypeAuction:
		resp := hostapi.AuctionResponse{Type: "auction_response"}
		err := s.store.View(func(st state.Store) error {
			info, err := core.New(st, addressValidator{}).Auction()
			if err != nil {
				return err
			}
			resp.Auction = &info
			return nil
		})
		resp.Success = err == nil
		resp.Error = hostapi.ErrorFrom(err)
		return resp

	case hostapi.TypeBids:
		var req hostapi.BidsRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return decodeFailure("bids", err)
		}
		resp := hostapi.CoinResponse{Type: "bids_response"}
		err := s.store.View(func(st state.Store) error {
			coin, err := core.New(st, addressValidator{}).Bids(req.Address)
			if err != nil {
				return err
			}
			resp.Coin = &coin
			return nil
		})
		resp.Success = err == nil
		resp.Error = hostapi.ErrorFrom(err)
		return resp

	case hostapi.TypeHighestBid:
		return s.bidRecordQuery("highest_bid_response", (*core.Engine).HighestBid)

	case hostapi.TypeWinner:
		return s.bidRecordQuery("winner_response", (*core.Engine).Winner)

	case hostapi.TypeBalances:
		var req hostapi.BalancesRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return decodeFailure("balances", err)
		}
		resp := hostapi.BalancesResponse{Type: "balances_response"}
		err := s.store.View(func(st state.Store) error {
			coins, err := bankBalances(st, req.Address)
			if err != nil {
				return err
			}
			resp.Balances = coins
			return nil
		})
		resp.Success = err == nil
		resp.Error = hostapi.ErrorFrom(err)
		return resp

	default:
		return map[string]any{
			"type":    "error",
			"message": fmt.Sprintf("unknown request type: %s", base.Type),
		}
	}
}

func decodeFailure(kind string, err error) any {
	log.Printf("ERROR: Failed to decode %s request: %v", kind, err)
	return map[string]any{
		"type":    "error",
		"message": fmt.Sprintf("failed to decode %s request: %v", kind, err),
	}
}

func (s *AuctionServer) bidRecordQuery(responseType string, q func(*core.Engine) (core.Bid, error)) hostapi.BidRecordResponse {
	resp := hostapi.BidRecordResponse{Type: responseType}
	err := s.store.View(func(st state.Store) error {
		bid, err := q(core.New(st, addressValidator{}))
		if err != nil {
			return err
		}
		resp.Bid = &bid
		return nil
	})
	resp.Success = err == nil
	resp.Error = hostapi.ErrorFrom(err)
	return resp
}

// execCommand runs one state-mutating command inside a single store
// transaction: attached funds move into contract custody, the engine
// mutates state, and its transfer instructions execute from custody. A
// failure at any point rolls the whole call back, funds included.
func (s *AuctionServer) execCommand(action, sender string, deposit []core.Coin, fn func(*core.Engine) (*core.Response, error)) hostapi.CommandResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := time.Now()

	var result *core.Response
	err := s.store.Update(func(st state.Store) error {
		if len(deposit) > 0 {
			if err := bankSend(st, sender, s.cfg.ContractAddress, deposit); err != nil {
				return err
			}
		}

		resp, err := fn(core.New(st, addressValidator{}))
		if err != nil {
			return err
		}

		for _, tr := range resp.Transfers {
			if err := bankSend(st, s.cfg.ContractAddress, tr.ToAddress, tr.Amount); err != nil {
				return err
			}
		}
		result = resp
		return nil
	})

	processingTime := time.Since(startTime).Milliseconds()

	if err != nil {
		log.Printf("INFO: Command %s from %s rejected: %v", action, sender, err)
		return hostapi.CommandResponse{
			Type:           action + "_response",
			Success:        false,
			Error:          hostapi.ErrorFrom(err),
			ProcessingTime: processingTime,
		}
	}

	// The command is committed. Audit and receipt failures are logged but
	// do not un-commit it.
	receiptID := uuid.NewString()
	if s.audit != nil {
		id, err := s.audit.Record(action, sender, result)
		if err != nil {
			log.Printf("ERROR: Failed to record audit entry: %v", err)
		} else {
			receiptID = id
		}
	}

	receipt, err := buildReceipt(s.signer, receiptID, action, sender, result)
	if err != nil {
		log.Printf("ERROR: Failed to sign receipt: %v", err)
		receipt = ""
	}

	log.Printf("INFO: Command %s from %s committed: %d transfer(s), %dms",
		action, sender, len(result.Transfers), processingTime)

	return hostapi.CommandResponse{
		Type:           action + "_response",
		Success:        true,
		Transfers:      result.Transfers,
		Attributes:     result.Attributes,
		Receipt:        receipt,
		ProcessingTime: processingTime,
	}
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	server, err := NewAuctionServer(cfg)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	log.Fatal(server.Start())
}
