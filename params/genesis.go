package params

import (
	"math/big"
)

// ------------------------------------------------------------
// NATIVE IRIS COIN ALLOCATIONS
// ------------------------------------------------------------
//
// IRIS is the native coin of the host chain (like ETH on Ethereum),
// 18 decimals, so 1 IRIS = 10^18 wei. Eyes mints are paid in it.
//
// Genesis funds the admin wallet so the drop can be exercised on a
// fresh datadir without a faucet.
// ------------------------------------------------------------

var (
	// 10^18
	irisDecimals = big.NewInt(0).Exp(big.NewInt(10), big.NewInt(18), nil)

	// 10.000 IRIS * 1e18
	AdminNativeAlloc = big.NewInt(0).Mul(
		big.NewInt(10_000),
		irisDecimals,
	)
)
