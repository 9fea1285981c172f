package core

// ExecRetract withdraws sender's escrowed funds after closing, optionally to
// an alternate receiver. The recorded winner can never retract; their escrow
// was swept at close. The ledger entry is removed on success, so a repeat
// retract fails with ErrNoBid instead of re-sending the same funds.
func (e *Engine) ExecRetract(sender, receiver string) (*Response, error) {
	isOpen, err := isOpenItem.Load(e.store)
	if err != nil {
		return nil, err
	}
	if isOpen {
		return nil, ErrBiddingOpen
	}

	winner, err := highestBidItem.MayLoad(e.store)
	if err != nil {
		return nil, err
	}
	if winner != nil && sender == winner.Address {
		return nil, ErrRetractByWinner
	}

	if receiver == "" {
		receiver = sender
	}

	escrow, err := bidsMap.MayLoad(e.store, sender)
	if err != nil {
		return nil, err
	}
	if escrow == nil {
		return nil, ErrNoBid
	}

	if err := bidsMap.Remove(e.store, sender); err != nil {
		return nil, err
	}

	resp := &Response{}
	resp.addTransfer(receiver, *escrow)
	resp.addAttribute("action", "retract")
	resp.addAttribute("sender", receiver)
	return resp, nil
}
