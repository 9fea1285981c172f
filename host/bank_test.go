package main

import (
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/thejohanmagnusson/bidding-contract/core"
	"github.com/thejohanmagnusson/bidding-contract/state"
)

func TestBankMint_CreatesBalance(t *testing.T) {
	store := state.NewMemStore()

	err := store.Update(func(st state.Store) error {
		return bankMint(st, "alice", atoms(50))
	})
	assert.NoError(t, err)

	err = store.View(func(st state.Store) error {
		coins, err := bankBalances(st, "alice")
		assert.NoError(t, err)
		check.Equal(t, []core.Coin{core.NewCoin("atom", 50)}, coins)
		return nil
	})
	assert.NoError(t, err)
}

func TestBankSend_MovesFunds(t *testing.T) {
	store := state.NewMemStore()

	err := store.Update(func(st state.Store) error {
		if err := bankMint(st, "alice", atoms(50)); err != nil {
			return err
		}
		return bankSend(st, "alice", "bob", atoms(20))
	})
	assert.NoError(t, err)

	err = store.View(func(st state.Store) error {
		aliceCoins, err := bankBalances(st, "alice")
		assert.NoError(t, err)
		check.Equal(t, []core.Coin{core.NewCoin("atom", 30)}, aliceCoins)

		bobCoins, err := bankBalances(st, "bob")
		assert.NoError(t, err)
		check.Equal(t, []core.Coin{core.NewCoin("atom", 20)}, bobCoins)
		return nil
	})
	assert.NoError(t, err)
}

func TestBankSend_InsufficientFunds(t *testing.T) {
	store := state.NewMemStore()

	err := store.Update(func(st state.Store) error {
		if err := bankMint(st, "alice", atoms(10)); err != nil {
			return err
		}
		return bankSend(st, "alice", "bob", atoms(20))
	})
	assert.Error(t, err)

	// The failed update must not have left partial balances behind.
	err = store.View(func(st state.Store) error {
		coins, err := bankBalances(st, "alice")
		assert.NoError(t, err)
		check.Equal(t, 0, len(coins))
		return nil
	})
	assert.NoError(t, err)
}

func TestBankSend_UnknownSender(t *testing.T) {
	store := state.NewMemStore()

	err := store.Update(func(st state.Store) error {
		return bankSend(st, "ghost", "bob", atoms(5))
	})
	assert.Error(t, err)
}

func TestBankSend_SkipsZeroCoins(t *testing.T) {
	store := state.NewMemStore()

	err := store.Update(func(st state.Store) error {
		if err := bankMint(st, "alice", atoms(10)); err != nil {
			return err
		}
		return bankSend(st, "alice", "bob", []core.Coin{core.NewCoin("atom", 0)})
	})
	assert.NoError(t, err)

	err = store.View(func(st state.Store) error {
		coins, err := bankBalances(st, "bob")
		assert.NoError(t, err)
		check.Equal(t, 0, len(coins))
		return nil
	})
	assert.NoError(t, err)
}

func TestBankMint_AccumulatesDenom(t *testing.T) {
	store := state.NewMemStore()

	err := store.Update(func(st state.Store) error {
		if err := bankMint(st, "alice", atoms(10)); err != nil {
			return err
		}
		return bankMint(st, "alice", atoms(5))
	})
	assert.NoError(t, err)

	err = store.View(func(st state.Store) error {
		coins, err := bankBalances(st, "alice")
		assert.NoError(t, err)
		check.Equal(t, []core.Coin{core.NewCoin("atom", 15)}, coins)
		return nil
	})
	assert.NoError(t, err)
}
