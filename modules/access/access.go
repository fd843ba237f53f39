// Package access is the role registry: two roles, Admin and Minter,
// with a fixed admin-of table (Admin administers both itself and
// Minter). Only members of a role's admin role may grant or revoke it.
package access

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Starloss/iris-chain/modules/token"
	"github.com/Starloss/iris-chain/state"
)

const (
	RoleAdmin  = "ADMIN"
	RoleMinter = "MINTER"
)

// adminOf is consulted only by Grant/Revoke. Admin is self-administering.
var adminOf = map[string]string{
	RoleAdmin:  RoleAdmin,
	RoleMinter: RoleAdmin,
}

type Registry struct {
	state *state.State
}

func NewRegistry(st *state.State) *Registry {
	return &Registry{state: st}
}

func (r *Registry) HasRole(role string, addr common.Address) bool {
	return r.state.HasRole(role, addr)
}

func (r *Registry) IsAdmin(addr common.Address) bool {
	return r.state.HasRole(RoleAdmin, addr)
}

func (r *Registry) IsMinter(addr common.Address) bool {
	return r.state.HasRole(RoleMinter, addr)
}

// Require fails with Unauthorized naming the missing role.
func (r *Registry) Require(role string, addr common.Address) error {
	if !r.state.HasRole(role, addr) {
		return token.Unauthorized(role)
	}
	return nil
}

// Grant adds addr to role. Idempotent: granting an existing member is a
// no-op success. The caller must hold the role's admin role.
func (r *Registry) Grant(role string, addr, caller common.Address) error {
	if err := r.Require(adminOf[role], caller); err != nil {
		return err
	}
	if r.state.HasRole(role, addr) {
		return nil
	}

	r.state.SetRole(role, addr, true)
	r.state.AppendEvent("RoleGranted", map[string]string{
		"role":    role,
		"account": addr.Hex(),
		"sender":  caller.Hex(),
	})
	return nil
}

// Revoke removes addr from role. Idempotent like Grant.
func (r *Registry) Revoke(role string, addr, caller common.Address) error {
	if err := r.Require(adminOf[role], caller); err != nil {
		return err
	}
	if !r.state.HasRole(role, addr) {
		return nil
	}

	r.state.SetRole(role, addr, false)
	r.state.AppendEvent("RoleRevoked", map[string]string{
		"role":    role,
		"account": addr.Hex(),
		"sender":  caller.Hex(),
	})
	return nil
}
