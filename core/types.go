package core

// Coin is an amount of a single native denomination.
type Coin struct {
	Denom  string `json:"denom"`
	Amount Uint   `json:"amount"`
}

// NewCoin builds a Coin from a uint64 amount.
func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: NewUint(amount)}
}

// Bid is the recorded leading bid: the bidder's address and the gross
// (pre-commission) amount of the bid event that took the lead.
type Bid struct {
	Address string `json:"address"`
	Bid     Coin   `json:"bid"`
}

// Transfer instructs the host to move coins from contract custody to a
// destination address. The engine only issues instructions; the host
// executes them atomically with the state mutation.
type Transfer struct {
	ToAddress string `json:"to_address"`
	Amount    []Coin `json:"amount"`
}

// Attribute is one key/value pair of the audit trail emitted by a command.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response collects the outbound effects of a successful command. A failed
// command produces no Response and no effects.
type Response struct {
	Transfers  []Transfer  `json:"transfers,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

func (r *Response) addTransfer(to string, amount ...Coin) {
	r.Transfers = append(r.Transfers, Transfer{ToAddress: to, Amount: amount})
}

func (r *Response) addAttribute(key, value string) {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
}

// AuctionInfo is the auction configuration and open/closed flag.
type AuctionInfo struct {
	Commodity  string `json:"commodity"`
	BidAsset   Coin   `json:"bid_asset"`
	Commission Uint   `json:"commission"`
	IsOpen     bool   `json:"is_open"`
}

// InstantiateMsg carries the one-time auction configuration. The bid asset
// amount is accepted but only the denomination is ever consulted.
type InstantiateMsg struct {
	Commodity  string `json:"commodity"`
	BidAsset   Coin   `json:"bid_asset"`
	Commission Uint   `json:"commission"`
	Owner      string `json:"owner,omitempty"`
}
