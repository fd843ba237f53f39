package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ContractConfig is the admin-controlled configuration of the Iris/Eyes
// contracts. Constructed once at deployment, mutated only through the
// admin setters.
type ContractConfig struct {
	Cost               *big.Int `json:"cost"`     // price per Eye (wei)
	IrisCost           *big.Int `json:"irisCost"` // price per Iris unit (wei)
	MaxSupply          uint64   `json:"maxSupply"`
	MaxMintAmountPerTx uint64   `json:"maxMintAmountPerTx"`

	UriPrefix         string `json:"uriPrefix"`
	UriSuffix         string `json:"uriSuffix"`
	HiddenMetadataUri string `json:"hiddenMetadataUri"`
	Revealed          bool   `json:"revealed"`

	Paused  bool `json:"paused"`
	Started bool `json:"started"` // one-way: never flips back

	// Fixed at deployment
	Vault  common.Address `json:"vault"`  // accumulates mint payments
	Payout common.Address `json:"payout"` // withdraw destination

	Deployed bool `json:"deployed"`
}

func newContractConfig() *ContractConfig {
	return &ContractConfig{
		Cost:     big.NewInt(0),
		IrisCost: big.NewInt(0),
	}
}

func (c *ContractConfig) Copy() *ContractConfig {
	cp := *c
	cp.Cost = new(big.Int).Set(c.Cost)
	cp.IrisCost = new(big.Int).Set(c.IrisCost)
	return &cp
}

func (c *ContractConfig) normalize() {
	if c.Cost == nil {
		c.Cost = big.NewInt(0)
	}
	if c.IrisCost == nil {
		c.IrisCost = big.NewInt(0)
	}
}
