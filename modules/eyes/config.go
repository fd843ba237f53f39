package eyes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Starloss/iris-chain/modules/access"
	"github.com/Starloss/iris-chain/modules/token"
	"github.com/Starloss/iris-chain/state"
)

// Admin configuration setters. All of these stay available while the
// contract is paused.

func (d *Drop) SetCost(caller common.Address, cost *big.Int) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}
	if cost == nil || cost.Sign() < 0 {
		return token.ErrInvalidAmount
	}

	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.Cost = new(big.Int).Set(cost)
	})
	return nil
}

func (d *Drop) SetMaxMintAmountPerTx(caller common.Address, max uint64) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}

	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.MaxMintAmountPerTx = max
	})
	return nil
}

func (d *Drop) SetRevealed(caller common.Address, revealed bool) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}

	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.Revealed = revealed
	})
	return nil
}

func (d *Drop) SetHiddenMetadataUri(caller common.Address, uri string) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}

	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.HiddenMetadataUri = uri
	})
	return nil
}

func (d *Drop) SetUriPrefix(caller common.Address, prefix string) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}

	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.UriPrefix = prefix
	})
	return nil
}

func (d *Drop) SetUriSuffix(caller common.Address, suffix string) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}

	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.UriSuffix = suffix
	})
	return nil
}

// Config returns a copy of the current contract configuration.
func (d *Drop) Config() *state.ContractConfig {
	return d.state.Config()
}
