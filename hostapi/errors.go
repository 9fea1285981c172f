package hostapi

import (
	"errors"

	"github.com/thejohanmagnusson/bidding-contract/core"
)

// Error kinds. The taxonomy is closed; "internal" is the passthrough
// category for storage and host failures.
const (
	KindUnauthorized        = "unauthorized"
	KindBiddingClosed       = "bidding_closed"
	KindBiddingOpen         = "bidding_open"
	KindBiddingByOwner      = "bidding_by_owner"
	KindInvalidDenomination = "invalid_denomination"
	KindBidTooLow           = "bid_too_low"
	KindRetractByWinner     = "retract_by_winner"
	KindNoBid               = "no_bid"
	KindInternal            = "internal"
)

// ErrorDetail is the wire form of a command error: the kind, the
// human-readable message, and the context a client needs to retry with
// corrected inputs.
type ErrorDetail struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Context map[string]string `json:"context,omitempty"`
}

// ErrorFrom maps an engine error onto its wire detail.
func ErrorFrom(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	var unauth core.UnauthorizedError
	if errors.As(err, &unauth) {
		return &ErrorDetail{
			Kind:    KindUnauthorized,
			Message: unauth.Error(),
			Context: map[string]string{"owner": unauth.Owner},
		}
	}
	var denom core.InvalidDenominationError
	if errors.As(err, &denom) {
		return &ErrorDetail{
			Kind:    KindInvalidDenomination,
			Message: denom.Error(),
			Context: map[string]string{"denom": denom.Denom},
		}
	}
	var low core.BidTooLowError
	if errors.As(err, &low) {
		return &ErrorDetail{
			Kind:    KindBidTooLow,
			Message: low.Error(),
			Context: map[string]string{"highest_bid": low.HighestBid.String()},
		}
	}

	switch {
	case errors.Is(err, core.ErrBiddingClosed):
		return &ErrorDetail{Kind: KindBiddingClosed, Message: err.Error()}
	case errors.Is(err, core.ErrBiddingOpen):
		return &ErrorDetail{Kind: KindBiddingOpen, Message: err.Error()}
	case errors.Is(err, core.ErrBiddingByOwner):
		return &ErrorDetail{Kind: KindBiddingByOwner, Message: err.Error()}
	case errors.Is(err, core.ErrRetractByWinner):
		return &ErrorDetail{Kind: KindRetractByWinner, Message: err.Error()}
	case errors.Is(err, core.ErrNoBid):
		return &ErrorDetail{Kind: KindNoBid, Message: err.Error()}
	}

	return &ErrorDetail{Kind: KindInternal, Message: err.Error()}
}
