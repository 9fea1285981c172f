package core

// Auction returns the commodity, bid asset, commission rate and open flag.
func (e *Engine) Auction() (AuctionInfo, error) {
	commodity, err := commodityItem.Load(e.store)
	if err != nil {
		return AuctionInfo{}, err
	}
	bidAsset, err := bidAssetItem.Load(e.store)
	if err != nil {
		return AuctionInfo{}, err
	}
	commission, err := commissionItem.Load(e.store)
	if err != nil {
		return AuctionInfo{}, err
	}
	isOpen, err := isOpenItem.Load(e.store)
	if err != nil {
		return AuctionInfo{}, err
	}
	return AuctionInfo{
		Commodity:  commodity,
		BidAsset:   bidAsset,
		Commission: commission,
		IsOpen:     isOpen,
	}, nil
}

// Bids returns the net escrow ledger entry for an address, or a zero amount
// in the configured denomination when the address never bid. Never an error
// for an unknown address.
func (e *Engine) Bids(address string) (Coin, error) {
	entry, err := bidsMap.MayLoad(e.store, address)
	if err != nil {
		return Coin{}, err
	}
	if entry != nil {
		return *entry, nil
	}
	return e.zeroCoin()
}

// HighestBid returns the current leading bid record regardless of the
// open/closed state, or the empty placeholder when no bid was ever placed.
func (e *Engine) HighestBid() (Bid, error) {
	hb, err := highestBidItem.MayLoad(e.store)
	if err != nil {
		return Bid{}, err
	}
	if hb != nil {
		return *hb, nil
	}
	return e.emptyBid()
}

// Winner returns the leading bid record only while the auction is open.
// Once closed it always returns the empty placeholder; post-close consumers
// rely on the auction info flag and settlement confirmation.
func (e *Engine) Winner() (Bid, error) {
	isOpen, err := isOpenItem.Load(e.store)
	if err != nil {
		return Bid{}, err
	}
	if isOpen {
		hb, err := highestBidItem.MayLoad(e.store)
		if err != nil {
			return Bid{}, err
		}
		if hb != nil {
			return *hb, nil
		}
	}
	return e.emptyBid()
}

func (e *Engine) zeroCoin() (Coin, error) {
	asset, err := bidAssetItem.Load(e.store)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Denom: asset.Denom, Amount: ZeroUint()}, nil
}

func (e *Engine) emptyBid() (Bid, error) {
	zero, err := e.zeroCoin()
	if err != nil {
		return Bid{}, err
	}
	return Bid{Address: "", Bid: zero}, nil
}
