package core

// commissionDivisor converts the integer commission rate to a percentage.
var commissionDivisor = NewUint(100)

// ExecBid places a bid for sender with the attached funds. Preconditions are
// checked in order: auction open, sender not the owner, funds carrying the
// configured denomination. The commission is skimmed off every accepted bid
// and forwarded to the owner immediately; the net remainder accumulates in
// the sender's escrow ledger entry. The accumulated net total is compared
// against the stored highest-bid amount, and on success the highest bid is
// overwritten with the gross amount of this bid event.
func (e *Engine) ExecBid(sender string, funds []Coin) (*Response, error) {
	isOpen, err := isOpenItem.Load(e.store)
	if err != nil {
		return nil, err
	}
	if !isOpen {
		return nil, ErrBiddingClosed
	}

	owner, err := ownerItem.Load(e.store)
	if err != nil {
		return nil, err
	}
	if sender == owner {
		return nil, ErrBiddingByOwner
	}

	asset, err := bidAssetItem.Load(e.store)
	if err != nil {
		return nil, err
	}
	attached, ok := findDenom(funds, asset.Denom)
	if !ok {
		return nil, InvalidDenominationError{Denom: asset.Denom}
	}

	rate, err := commissionItem.Load(e.store)
	if err != nil {
		return nil, err
	}
	commission := attached.Amount.MulDiv(rate, commissionDivisor)
	netIncrement, err := attached.Amount.Sub(commission)
	if err != nil {
		return nil, InternalError{Reason: "commission exceeds gross bid amount"}
	}

	amount := netIncrement
	if prior, err := bidsMap.MayLoad(e.store, sender); err != nil {
		return nil, err
	} else if prior != nil {
		amount = prior.Amount.Add(netIncrement)
	}

	// The comparison key is the accumulated net ledger total; the stored
	// highest is the gross snapshot of the bid event that took the lead.
	highest := ZeroUint()
	if hb, err := highestBidItem.MayLoad(e.store); err != nil {
		return nil, err
	} else if hb != nil {
		highest = hb.Bid.Amount
	}
	if amount.LT(highest) {
		return nil, BidTooLowError{HighestBid: highest}
	}

	if err := bidsMap.Save(e.store, sender, Coin{Denom: attached.Denom, Amount: amount}); err != nil {
		return nil, err
	}

	// Gross of this bid event, not the accumulated ledger total.
	if err := highestBidItem.Save(e.store, Bid{
		Address: sender,
		Bid:     Coin{Denom: attached.Denom, Amount: attached.Amount},
	}); err != nil {
		return nil, err
	}

	resp := &Response{}
	resp.addTransfer(owner, Coin{Denom: attached.Denom, Amount: commission})
	resp.addAttribute("action", "bid")
	resp.addAttribute("sender", sender)
	resp.addAttribute("commission", commission.String())
	return resp, nil
}

// findDenom returns the first attached coin in the wanted denomination.
func findDenom(funds []Coin, denom string) (Coin, bool) {
	for _, c := range funds {
		if c.Denom == denom {
			return c, true
		}
	}
	return Coin{}, false
}
