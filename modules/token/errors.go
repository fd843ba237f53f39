// Package token holds the failure kinds shared by the Iris and Eyes
// contracts. Every operation either fully succeeds or fails with one of
// these; the executor rolls back the whole call on any of them.
package token

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInsufficientPayment   = errors.New("insufficient payment")
	ErrInvalidAmount         = errors.New("invalid mint amount")
	ErrSupplyExceeded        = errors.New("max supply exceeded")
	ErrSaleNotStarted        = errors.New("sale has not started")
	ErrContractPaused        = errors.New("contract is paused")
	ErrNotOwner              = errors.New("caller is not the token owner")
	ErrNoSuchToken           = errors.New("no such token")
	ErrTransferFailed        = errors.New("transfer failed")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

// Unauthorized names the role the caller is missing.
func Unauthorized(role string) error {
	return fmt.Errorf("%w: missing role %s", ErrUnauthorized, role)
}
