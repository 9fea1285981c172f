package core

import (
	"errors"
	"fmt"
)

// The command error taxonomy is closed: every precondition violation maps to
// one of the values below, and each carries only what a caller needs to
// correct its input. Storage failures pass through wrapped.
var (
	ErrBiddingClosed   = errors.New("bidding is closed")
	ErrBiddingOpen     = errors.New("bidding is still open")
	ErrBiddingByOwner  = errors.New("owner can not bid")
	ErrRetractByWinner = errors.New("winner can not retract funds")
	ErrNoBid           = errors.New("no placed bids")
)

// UnauthorizedError rejects a command reserved for the auction owner.
type UnauthorizedError struct {
	Owner string
}

func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized - only %s can call it", e.Owner)
}

// InvalidDenominationError rejects a bid whose attached funds carry no entry
// in the configured bid denomination.
type InvalidDenominationError struct {
	Denom string
}

func (e InvalidDenominationError) Error() string {
	return fmt.Sprintf("bids must be in %s", e.Denom)
}

// BidTooLowError rejects a bid whose accumulated ledger amount would fall
// below the current highest bid. HighestBid carries the amount to beat.
type BidTooLowError struct {
	HighestBid Uint
}

func (e BidTooLowError) Error() string {
	return fmt.Sprintf("bid is too low, current highest bid is %s", e.HighestBid.String())
}

// InternalError marks a state-corruption condition that must be surfaced
// loudly rather than recovered from, such as a recorded winner with no
// escrow ledger entry.
type InternalError struct {
	Reason string
}

func (e InternalError) Error() string {
	return "internal invariant violated: " + e.Reason
}
