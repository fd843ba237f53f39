package params

import "math/big"

type ChainConfig struct {
	ChainID      uint64 `json:"chainId"`
	NativeSymbol string `json:"nativeSymbol"`
}

func IrisChainConfig() *ChainConfig {
	return &ChainConfig{
		ChainID:      7177,
		NativeSymbol: "IRIS",
	}
}

// DropParams are the deploy-time parameters of the Eyes drop and the Iris
// token. They seed the contract configuration on first boot; every field is
// adjustable afterwards through the admin setters.
type DropParams struct {
	Cost               *big.Int `json:"cost"`     // price per Eye (wei)
	IrisCost           *big.Int `json:"irisCost"` // price per Iris unit (wei)
	MaxSupply          uint64   `json:"maxSupply"`
	MaxMintAmountPerTx uint64   `json:"maxMintAmountPerTx"`
	HiddenMetadataUri  string   `json:"hiddenMetadataUri"`
}

func DefaultDropParams() *DropParams {
	return &DropParams{
		Cost:               big.NewInt(10_000_000_000_000_000), // 0.01
		IrisCost:           big.NewInt(10_000_000_000_000_000),
		MaxSupply:          300,
		MaxMintAmountPerTx: 5,
		HiddenMetadataUri:  "ipfs://__CID__/hidden.json",
	}
}
