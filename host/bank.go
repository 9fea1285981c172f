package main

import (
	"fmt"

	"github.com/thejohanmagnusson/bidding-contract/core"
	"github.com/thejohanmagnusson/bidding-contract/state"
)

// The bank ledger lives in the same store as the auction state, so fund
// movement and engine mutation commit or roll back together.
var balancesMap = state.NewMap[[]core.Coin]("balances")

// bankBalances returns all coins held by an address.
func bankBalances(s state.Store, address string) ([]core.Coin, error) {
	coins, err := balancesMap.MayLoad(s, address)
	if err != nil {
		return nil, err
	}
	if coins == nil {
		return []core.Coin{}, nil
	}
	return *coins, nil
}

// bankMint credits coins out of thin air. Genesis only.
func bankMint(s state.Store, to string, amount []core.Coin) error {
	for _, c := range amount {
		if err := bankCredit(s, to, c); err != nil {
			return err
		}
	}
	return nil
}

// bankSend moves coins between accounts, failing on insufficient funds.
func bankSend(s state.Store, from, to string, amount []core.Coin) error {
	for _, c := range amount {
		if c.Amount.IsZero() {
			continue
		}
		if err := bankDebit(s, from, c); err != nil {
			return err
		}
		if err := bankCredit(s, to, c); err != nil {
			return err
		}
	}
	return nil
}

func bankCredit(s state.Store, address string, coin core.Coin) error {
	coins, err := bankBalances(s, address)
	if err != nil {
		return err
	}
	for i := range coins {
		if coins[i].Denom == coin.Denom {
			coins[i].Amount = coins[i].Amount.Add(coin.Amount)
			return balancesMap.Save(s, address, coins)
		}
	}
	coins = append(coins, coin)
	return balancesMap.Save(s, address, coins)
}

func bankDebit(s state.Store, address string, coin core.Coin) error {
	coins, err := bankBalances(s, address)
	if err != nil {
		return err
	}
	for i := range coins {
		if coins[i].Denom != coin.Denom {
			continue
		}
		remaining, err := coins[i].Amount.Sub(coin.Amount)
		if err != nil {
			return fmt.Errorf("insufficient funds: %s has %s %s, needs %s",
				address, coins[i].Amount.String(), coin.Denom, coin.Amount.String())
		}
		coins[i].Amount = remaining
		return balancesMap.Save(s, address, coins)
	}
	return fmt.Errorf("insufficient funds: %s has no %s", address, coin.Denom)
}
