// Package eyes is the non-fungible token drop: sequential ids issued
// against a fixed max supply, a paid public mint behind the sale gate,
// an admin mint-to-address, burn, and the hidden/revealed metadata URI
// switch. Payments accrue to the vault and are swept by Withdraw.
package eyes

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Starloss/iris-chain/modules/access"
	"github.com/Starloss/iris-chain/modules/token"
	"github.com/Starloss/iris-chain/state"
)

type Drop struct {
	state *state.State
	acl   *access.Registry
}

func NewDrop(st *state.State, acl *access.Registry) *Drop {
	return &Drop{state: st, acl: acl}
}

// -------------------------
// Mint
// -------------------------

// Mint issues amount sequential Eyes to the caller. Guard order: role,
// pause, sale gate (against the caller), per-tx amount cap, supply cap,
// payment. Any failure reverts the whole call, so a batch is never
// partially minted.
func (d *Drop) Mint(caller common.Address, amount uint64, payment *big.Int) ([]uint64, error) {
	if err := d.acl.Require(access.RoleMinter, caller); err != nil {
		return nil, err
	}
	if err := d.requireNotPaused(); err != nil {
		return nil, err
	}
	if err := d.saleGate(caller); err != nil {
		return nil, err
	}
	if err := d.checkAmount(amount); err != nil {
		return nil, err
	}

	cfg := d.state.Config()
	price := new(big.Int).Mul(cfg.Cost, new(big.Int).SetUint64(amount))
	if payment == nil || payment.Cmp(price) < 0 {
		return nil, token.ErrInsufficientPayment
	}

	if err := d.state.TransferNative(caller, cfg.Vault, payment); err != nil {
		return nil, token.ErrInsufficientBalance
	}

	return d.issue(caller, amount), nil
}

// MintForAddress is the admin mint: no payment, but the sale gate is
// evaluated against the receiver, not the admin. An admin can mint to a
// whitelisted receiver before the sale starts; minting to anyone else
// before start still fails.
func (d *Drop) MintForAddress(caller, receiver common.Address, amount uint64) ([]uint64, error) {
	if err := d.acl.Require(access.RoleAdmin, caller); err != nil {
		return nil, err
	}
	if err := d.requireNotPaused(); err != nil {
		return nil, err
	}
	if err := d.saleGate(receiver); err != nil {
		return nil, err
	}
	if err := d.checkAmount(amount); err != nil {
		return nil, err
	}

	return d.issue(receiver, amount), nil
}

func (d *Drop) checkAmount(amount uint64) error {
	cfg := d.state.Config()
	if amount == 0 || amount > cfg.MaxMintAmountPerTx {
		return token.ErrInvalidAmount
	}
	if d.state.Issued()+amount > cfg.MaxSupply {
		return token.ErrSupplyExceeded
	}
	return nil
}

func (d *Drop) issue(receiver common.Address, amount uint64) []uint64 {
	ids := make([]uint64, 0, amount)
	for i := uint64(0); i < amount; i++ {
		id := d.state.IssueEye(receiver)
		ids = append(ids, id)

		d.state.AppendEvent("EyeMinted", map[string]string{
			"to":      receiver.Hex(),
			"tokenId": strconv.FormatUint(id, 10),
		})
	}
	return ids
}

// -------------------------
// Burn
// -------------------------

// Burn retires the token permanently. The id is never reissued and the
// issued counter does not decrement: the supply cap tracks how many
// were ever minted, not how many circulate.
func (d *Drop) Burn(caller common.Address, id uint64) error {
	if err := d.requireNotPaused(); err != nil {
		return err
	}

	tok, ok := d.state.Token(id)
	if !ok || tok.Burned {
		return token.ErrNoSuchToken
	}
	if tok.Owner != caller {
		return token.ErrNotOwner
	}

	d.state.BurnEye(id)
	d.state.AppendEvent("EyeBurned", map[string]string{
		"from":    caller.Hex(),
		"tokenId": strconv.FormatUint(id, 10),
	})
	return nil
}

// -------------------------
// Reads
// -------------------------

func (d *Drop) OwnerOf(id uint64) (common.Address, error) {
	tok, ok := d.state.Token(id)
	if !ok || tok.Burned {
		return common.Address{}, token.ErrNoSuchToken
	}
	return tok.Owner, nil
}

// WalletOfOwner returns the ids currently owned by owner, ascending.
func (d *Drop) WalletOfOwner(owner common.Address) []uint64 {
	return d.state.Holdings(owner)
}

// TokenURI resolves the metadata URI: the hidden URI verbatim until
// revealed, then prefix + decimal id + suffix (empty when no prefix).
func (d *Drop) TokenURI(id uint64) (string, error) {
	tok, ok := d.state.Token(id)
	if !ok || tok.Burned {
		return "", token.ErrNoSuchToken
	}

	cfg := d.state.Config()
	if !cfg.Revealed {
		return cfg.HiddenMetadataUri, nil
	}
	if cfg.UriPrefix == "" {
		return "", nil
	}
	return cfg.UriPrefix + strconv.FormatUint(id, 10) + cfg.UriSuffix, nil
}

// TotalSupply is the highest-issued count, not the circulating count.
func (d *Drop) TotalSupply() uint64 {
	return d.state.Issued()
}

func (d *Drop) MaxSupply() uint64 {
	return d.state.Config().MaxSupply
}
