package core

import (
	"fmt"

	"github.com/thejohanmagnusson/bidding-contract/state"
)

// Persisted cells. The key layout is the contract's storage schema; existing
// state snapshots depend on it, so keys never change.
var (
	ownerItem      = state.NewItem[string]("owner")
	commodityItem  = state.NewItem[string]("commodity")
	bidAssetItem   = state.NewItem[Coin]("bid_asset")
	commissionItem = state.NewItem[Uint]("commission")
	isOpenItem     = state.NewItem[bool]("is_open")
	highestBidItem = state.NewItem[Bid]("highest_bid")
	bidsMap        = state.NewMap[Coin]("bids")
)

// AddressValidator checks and normalizes an address string. The host owns
// the address format; the engine only consults it where the original
// contract did, on the instantiate owner override.
type AddressValidator interface {
	Validate(address string) (string, error)
}

// Engine executes auction commands and queries against a store handle. The
// host passes a transactional store view per invocation and guarantees
// single-writer, serialized execution.
type Engine struct {
	store     state.Store
	validator AddressValidator
}

// New creates an Engine over a store view.
func New(store state.Store, validator AddressValidator) *Engine {
	return &Engine{store: store, validator: validator}
}

// Instantiated reports whether the auction configuration exists yet.
func (e *Engine) Instantiated() (bool, error) {
	owner, err := ownerItem.MayLoad(e.store)
	if err != nil {
		return false, err
	}
	return owner != nil, nil
}

// Instantiate persists the immutable auction configuration and opens
// bidding. It runs exactly once per auction instance; the effective owner is
// the explicit override when provided and address-valid, otherwise sender.
func (e *Engine) Instantiate(sender string, msg InstantiateMsg) (*Response, error) {
	owner := sender
	if msg.Owner != "" {
		validated, err := e.validator.Validate(msg.Owner)
		if err != nil {
			return nil, fmt.Errorf("invalid owner address: %w", err)
		}
		owner = validated
	}

	if err := ownerItem.Save(e.store, owner); err != nil {
		return nil, err
	}
	if err := commodityItem.Save(e.store, msg.Commodity); err != nil {
		return nil, err
	}
	if err := bidAssetItem.Save(e.store, msg.BidAsset); err != nil {
		return nil, err
	}
	if err := commissionItem.Save(e.store, msg.Commission); err != nil {
		return nil, err
	}
	if err := isOpenItem.Save(e.store, true); err != nil {
		return nil, err
	}
	// No escrow entries and no highest bid exist until the first bid.

	return &Response{}, nil
}
