package state

import (
	"math/big"
)

// Account is the per-address record: native coin balance (used to pay
// for mints), Iris token balance with its allowance table, and the call
// nonce.
type Account struct {
	Balance   *big.Int            `json:"balance"`
	Iris      *big.Int            `json:"irisBalance"`
	Allowance map[string]*big.Int `json:"allowance,omitempty"` // spender -> Iris allowance
	Nonce     uint64              `json:"nonce"`
}

func NewAccount() *Account {
	return &Account{
		Balance: big.NewInt(0),
		Iris:    big.NewInt(0),
		Nonce:   0,
	}
}

func (a *Account) Copy() *Account {
	cp := &Account{
		Balance: new(big.Int).Set(a.Balance),
		Iris:    new(big.Int).Set(a.Iris),
		Nonce:   a.Nonce,
	}
	if len(a.Allowance) > 0 {
		cp.Allowance = make(map[string]*big.Int, len(a.Allowance))
		for k, v := range a.Allowance {
			cp.Allowance[k] = new(big.Int).Set(v)
		}
	}
	return cp
}

// normalize repairs nil big.Int fields after JSON decoding.
func (a *Account) normalize() {
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	if a.Iris == nil {
		a.Iris = big.NewInt(0)
	}
}
