package eyes

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Starloss/iris-chain/modules/access"
	"github.com/Starloss/iris-chain/modules/token"
	"github.com/Starloss/iris-chain/state"
)

// -------------------------
// Sale lifecycle
// -------------------------

// saleGate: minting is allowed once the sale has started, or earlier
// for whitelisted subjects.
func (d *Drop) saleGate(subject common.Address) error {
	cfg := d.state.Config()
	if cfg.Started || d.state.Whitelisted(subject) {
		return nil
	}
	return token.ErrSaleNotStarted
}

func (d *Drop) requireNotPaused() error {
	if d.state.Config().Paused {
		return token.ErrContractPaused
	}
	return nil
}

// Start flips the sale to started. One-way; calling again once started
// is a no-op success.
func (d *Drop) Start(caller common.Address) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}
	if d.state.Config().Started {
		return nil
	}

	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.Started = true
	})
	d.state.AppendEvent("SaleStarted", nil)
	return nil
}

func (d *Drop) Pause(caller common.Address) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}
	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.Paused = true
	})
	d.state.AppendEvent("Paused", nil)
	return nil
}

func (d *Drop) Unpause(caller common.Address) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}
	d.state.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.Paused = false
	})
	d.state.AppendEvent("Unpaused", nil)
	return nil
}

// -------------------------
// Whitelist & roles
// -------------------------

func (d *Drop) SetAddressInWhitelist(caller, addr common.Address, allowed bool) error {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return err
	}

	d.state.SetWhitelisted(addr, allowed)
	d.state.AppendEvent("WhitelistUpdated", map[string]string{
		"account": addr.Hex(),
		"allowed": boolString(allowed),
	})
	return nil
}

func (d *Drop) GrantMinterRole(caller, addr common.Address) error {
	return d.acl.Grant(access.RoleMinter, addr, caller)
}

func (d *Drop) RevokeMinterRole(caller, addr common.Address) error {
	return d.acl.Revoke(access.RoleMinter, addr, caller)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
