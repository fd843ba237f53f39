package state

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AddBalance: increase the native balance.
func (s *State) AddBalance(addr common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addBalance(addr, amount)
}

// SubBalance: decrease the native balance (with underflow check).
func (s *State) SubBalance(addr common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subBalance(addr, amount)
}

// TransferNative moves native coin between accounts in one step: the
// debit and the credit happen under the same lock.
func (s *State) TransferNative(from, to common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.subBalance(from, amount); err != nil {
		return err
	}
	return s.addBalance(to, amount)
}

func (s *State) addBalance(addr common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("invalid amount")
	}

	acc := s.touchAccount(addr)
	acc.Balance = new(big.Int).Add(acc.Balance, amount)
	return nil
}

func (s *State) subBalance(addr common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("invalid amount")
	}

	acc := s.touchAccount(addr)
	if acc.Balance.Cmp(amount) < 0 {
		return errors.New("insufficient native balance")
	}
	acc.Balance = new(big.Int).Sub(acc.Balance, amount)
	return nil
}

// AddIris: increase an Iris balance. Cannot fail: callers validate the
// amount and crediting has no cap. Does not touch total supply; the
// minting path grows supply explicitly via AddIrisSupply.
func (s *State) AddIris(addr common.Address, amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.touchAccount(addr)
	acc.Iris = new(big.Int).Add(acc.Iris, amount)
}

// SubIris: decrease an Iris balance (with underflow check).
func (s *State) SubIris(addr common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount == nil || amount.Sign() < 0 {
		return errors.New("invalid amount")
	}

	acc := s.touchAccount(addr)
	if acc.Iris.Cmp(amount) < 0 {
		return errors.New("insufficient Iris balance")
	}
	acc.Iris = new(big.Int).Sub(acc.Iris, amount)
	return nil
}

func (s *State) AddIrisSupply(amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.irisSupply = new(big.Int).Add(s.irisSupply, amount)
	s.markDirty(keyIrisSupply)
}
