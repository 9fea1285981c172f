package main

import (
	"testing"

	"github.com/peterldowns/testy/assert"

	"github.com/thejohanmagnusson/bidding-contract/core"
	"github.com/thejohanmagnusson/bidding-contract/state"
)

// newTestConfig builds a host config over an in-memory store with two
// funded bidders and a 10% commission auction owned by "owner".
func newTestConfig() *Config {
	return &Config{
		Listen:          "tcp:127.0.0.1:0",
		Creator:         "creator",
		Owner:           "owner",
		Commodity:       "Sheep",
		BidAsset:        core.NewCoin("atom", 0),
		Commission:      10,
		ContractAddress: defaultContractAddress,
		Genesis: []GenesisAccount{
			{Address: "alice", Coins: []core.Coin{core.NewCoin("atom", 100)}},
			{Address: "bob", Coins: []core.Coin{core.NewCoin("atom", 100)}},
			// Funded so an owner-sent command can deposit before the engine
			// rejects it.
			{Address: "owner", Coins: []core.Coin{core.NewCoin("atom", 50)}},
		},
		MaxWorkers: 4,
	}
}

// newTestServer builds a bootstrapped server over an in-memory store. No
// listener is started; tests drive dispatch directly.
func newTestServer(t *testing.T) *AuctionServer {
	t.Helper()

	cfg := newTestConfig()
	signer, err := NewReceiptSigner("")
	assert.NoError(t, err)

	server := &AuctionServer{
		cfg:    cfg,
		store:  state.NewMemStore(),
		signer: signer,
	}
	assert.NoError(t, server.bootstrap())
	return server
}

// balanceOf reads one denom balance from the bank, zero if absent.
func balanceOf(t *testing.T, s *AuctionServer, address, denom string) core.Uint {
	t.Helper()

	amount := core.ZeroUint()
	err := s.store.View(func(st state.Store) error {
		coins, err := bankBalances(st, address)
		if err != nil {
			return err
		}
		for _, c := range coins {
			if c.Denom == denom {
				amount = c.Amount
			}
		}
		return nil
	})
	assert.NoError(t, err)
	return amount
}

func atoms(n uint64) []core.Coin {
	return []core.Coin{core.NewCoin("atom", n)}
}
