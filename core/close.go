package core

// ExecClose ends the auction. Only the owner may close, and only once; the
// second close fails with ErrBiddingClosed. When a highest bid exists the
// winner's full net escrow is swept to the owner in the same call.
func (e *Engine) ExecClose(sender string) (*Response, error) {
	owner, err := ownerItem.Load(e.store)
	if err != nil {
		return nil, err
	}
	if sender != owner {
		return nil, UnauthorizedError{Owner: owner}
	}

	isOpen, err := isOpenItem.Load(e.store)
	if err != nil {
		return nil, err
	}
	if !isOpen {
		return nil, ErrBiddingClosed
	}

	if err := isOpenItem.Save(e.store, false); err != nil {
		return nil, err
	}

	resp := &Response{}

	winner, err := highestBidItem.MayLoad(e.store)
	if err != nil {
		return nil, err
	}
	if winner != nil {
		// The winner's ledger entry must exist whenever a highest bid is
		// recorded; its absence is state corruption, not a user error.
		escrow, err := bidsMap.MayLoad(e.store, winner.Address)
		if err != nil {
			return nil, err
		}
		if escrow == nil {
			return nil, InternalError{Reason: "recorded winner has no escrow ledger entry"}
		}
		resp.addTransfer(owner, *escrow)
		resp.addAttribute("winner", winner.Address)
	} else {
		resp.addAttribute("winner", "None")
	}

	resp.addAttribute("action", "close")
	resp.addAttribute("sender", sender)
	resp.addAttribute("bidding", "closed")
	return resp, nil
}
