package types

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Sign fills in V, R, S over the call's SigHash.
func (c *Call) Sign(priv *ecdsa.PrivateKey) error {
	h := c.SigHash()

	sig, err := crypto.Sign(h.Bytes(), priv)
	if err != nil {
		return err
	}

	c.R = new(big.Int).SetBytes(sig[:32])
	c.S = new(big.Int).SetBytes(sig[32:64])
	c.V = new(big.Int).SetUint64(uint64(sig[64]) + 27)
	c.from = nil
	return nil
}

// Sender returns the signer address by recovering the public key
// from the V,R,S signature.
func (c *Call) Sender() (common.Address, error) {
	if c.from != nil {
		return *c.from, nil
	}
	if !c.IsSigned() {
		return common.Address{}, errors.New("missing signature (V/R/S)")
	}

	// Rebuild the sig: [R || S || V]
	sig := make([]byte, 65)

	rb := c.R.Bytes()
	sb := c.S.Bytes()

	if len(rb) > 32 || len(sb) > 32 {
		return common.Address{}, errors.New("malformed signature")
	}

	copy(sig[32-len(rb):32], rb)
	copy(sig[64-len(sb):64], sb)
	sig[64] = byte(c.V.Uint64() - 27) // normalize V

	h := c.SigHash()

	pubKey, err := crypto.Ecrecover(h.Bytes(), sig)
	if err != nil {
		return common.Address{}, err
	}

	pub, err := crypto.UnmarshalPubkey(pubKey)
	if err != nil {
		return common.Address{}, err
	}

	addr := crypto.PubkeyToAddress(*pub)
	c.from = &addr
	return addr, nil
}
