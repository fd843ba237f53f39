package eyes

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Starloss/iris-chain/modules/access"
	"github.com/Starloss/iris-chain/modules/token"
)

// Withdraw sweeps the entire vault balance to the payout address fixed
// at deployment. If the transfer fails nothing moves: the executor
// reverts the call.
func (d *Drop) Withdraw(caller common.Address) (*big.Int, error) {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return nil, err
	}

	cfg := d.state.Config()
	amount := d.state.GetBalance(cfg.Vault)

	if err := d.state.TransferNative(cfg.Vault, cfg.Payout, amount); err != nil {
		return nil, fmt.Errorf("%w: %v", token.ErrTransferFailed, err)
	}

	d.state.AppendEvent("Withdraw", map[string]string{
		"to":     cfg.Payout.Hex(),
		"amount": amount.String(),
	})
	return amount, nil
}

// VaultBalance is the payment value held and not yet withdrawn.
func (d *Drop) VaultBalance() *big.Int {
	return d.state.GetBalance(d.state.Config().Vault)
}
