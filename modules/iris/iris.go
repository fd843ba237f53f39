// Package iris is the fungible token: a paid mint on top of a standard
// balance/allowance ledger. Supply is unbounded; minting is open to
// anyone who attaches enough payment.
package iris

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Starloss/iris-chain/modules/access"
	"github.com/Starloss/iris-chain/modules/token"
	"github.com/Starloss/iris-chain/state"
)

type Ledger struct {
	state *state.State
	acl   *access.Registry
}

func NewLedger(st *state.State, acl *access.Registry) *Ledger {
	return &Ledger{state: st, acl: acl}
}

// -------------------------
// Mint (anyone, paid)
// -------------------------

// Mint issues amount units to the caller. The attached payment must
// cover cost*amount; it moves into the contract vault. Overpayment is
// kept (the comparison is >=, not exact).
func (l *Ledger) Mint(caller common.Address, amount, payment *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return token.ErrInvalidAmount
	}

	cfg := l.state.Config()
	price := new(big.Int).Mul(cfg.IrisCost, amount)
	if payment == nil || payment.Cmp(price) < 0 {
		return token.ErrInsufficientPayment
	}

	if err := l.state.TransferNative(caller, cfg.Vault, payment); err != nil {
		return token.ErrInsufficientBalance
	}

	l.state.AddIris(caller, amount)
	l.state.AddIrisSupply(amount)

	l.state.AppendEvent("IrisMint", map[string]string{
		"to":     caller.Hex(),
		"amount": amount.String(),
	})
	return nil
}

// -------------------------
// Transfer / Approve
// -------------------------

func (l *Ledger) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return token.ErrInvalidAmount
	}
	if err := l.state.SubIris(from, amount); err != nil {
		return token.ErrInsufficientBalance
	}
	l.state.AddIris(to, amount)

	l.state.AppendEvent("IrisTransfer", map[string]string{
		"from":   from.Hex(),
		"to":     to.Hex(),
		"amount": amount.String(),
	})
	return nil
}

func (l *Ledger) Approve(owner, spender common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return token.ErrInvalidAmount
	}
	l.state.SetAllowance(owner, spender, amount)

	l.state.AppendEvent("IrisApproval", map[string]string{
		"owner":   owner.Hex(),
		"spender": spender.Hex(),
		"amount":  amount.String(),
	})
	return nil
}

// TransferFrom spends the caller's allowance on the owner's balance.
func (l *Ledger) TransferFrom(caller, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return token.ErrInvalidAmount
	}

	allowed := l.state.GetAllowance(from, caller)
	if allowed.Cmp(amount) < 0 {
		return token.ErrInsufficientAllowance
	}

	if err := l.Transfer(from, to, amount); err != nil {
		return err
	}

	l.state.SetAllowance(from, caller, new(big.Int).Sub(allowed, amount))
	return nil
}

// -------------------------
// Admin
// -------------------------

func (l *Ledger) SetCost(caller common.Address, cost *big.Int) error {
	if err := l.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}
	if cost == nil || cost.Sign() < 0 {
		return token.ErrInvalidAmount
	}

	l.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.IrisCost = new(big.Int).Set(cost)
	})
	return nil
}

// -------------------------
// Reads
// -------------------------

func (l *Ledger) BalanceOf(addr common.Address) *big.Int {
	return l.state.GetIrisBalance(addr)
}

func (l *Ledger) TotalSupply() *big.Int {
	return l.state.IrisSupply()
}

func (l *Ledger) Allowance(owner, spender common.Address) *big.Int {
	return l.state.GetAllowance(owner, spender)
}

func (l *Ledger) Cost() *big.Int {
	return l.state.Config().IrisCost
}
