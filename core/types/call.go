package types

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Call is a signed contract invocation. It is the only way state is
// mutated: the executor recovers the sender from the signature, checks
// the nonce, and dispatches Method with Params to the target contract.
// Value is the native payment attached to the call (for paid mints).
type Call struct {
	ChainID uint64          `json:"chainId"`
	Nonce   uint64          `json:"nonce"`
	From    common.Address  `json:"from"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Value   *big.Int        `json:"value"`

	// Signature parts
	V *big.Int `json:"v"`
	R *big.Int `json:"r"`
	S *big.Int `json:"s"`

	// Cached sender
	from *common.Address
}

// calldata is the canonical unsigned payload that gets hashed and signed.
type calldata struct {
	ChainID uint64          `json:"chainId"`
	Nonce   uint64          `json:"nonce"`
	From    common.Address  `json:"from"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Value   *big.Int        `json:"value"`
}

func keccak(data []byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out common.Hash
	h.Sum(out[:0])
	return out
}

// SigHash is the hash the sender signs: keccak over the canonical JSON
// encoding of the unsigned fields.
func (c *Call) SigHash() common.Hash {
	data, _ := json.Marshal(calldata{
		ChainID: c.ChainID,
		Nonce:   c.Nonce,
		From:    c.From,
		Method:  c.Method,
		Params:  c.Params,
		Value:   c.Value,
	})
	return keccak(data)
}

// Hash identifies the signed call (used as the receipt key).
func (c *Call) Hash() common.Hash {
	data, _ := json.Marshal(c)
	return keccak(data)
}

func (c *Call) IsSigned() bool {
	return c.V != nil && c.R != nil && c.S != nil
}

// PaymentValue never returns nil.
func (c *Call) PaymentValue() *big.Int {
	if c.Value == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(c.Value)
}
