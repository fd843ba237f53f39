package eyes

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Starloss/iris-chain/modules/access"
	"github.com/Starloss/iris-chain/modules/token"
	"github.com/Starloss/iris-chain/state"
)

var (
	admin  = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	minter = common.HexToAddress("0x0000000000000000000000000000000000000c02")
	carol  = common.HexToAddress("0x0000000000000000000000000000000000000c03")
	vault  = common.HexToAddress("0x0000000000000000000000000000000000000cfe")
	payout = common.HexToAddress("0x0000000000000000000000000000000000000cff")
)

// 0.01 with 18 decimals
var cost = big.NewInt(10_000_000_000_000_000)

func newDrop(t *testing.T) (*Drop, *state.State) {
	t.Helper()

	st, err := state.NewState(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	st.SetRole(access.RoleAdmin, admin, true)
	st.SetRole(access.RoleMinter, minter, true)
	st.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.Cost = cost
		cfg.MaxSupply = 300
		cfg.MaxMintAmountPerTx = 5
		cfg.HiddenMetadataUri = "ipfs://hidden.json"
		cfg.Vault = vault
		cfg.Payout = payout
	})

	// plenty of native coin for payments
	st.AddBalance(minter, new(big.Int).Mul(cost, big.NewInt(1000)))

	return NewDrop(st, access.NewRegistry(st)), st
}

func startedDrop(t *testing.T) (*Drop, *state.State) {
	t.Helper()
	d, st := newDrop(t)
	require.NoError(t, d.Start(admin))
	return d, st
}

// -------------------------
// Minting
// -------------------------

func TestMintSequentialIds(t *testing.T) {
	d, _ := startedDrop(t)

	ids, err := d.Mint(minter, 3, new(big.Int).Mul(cost, big.NewInt(3)))
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)
	assert.Equal(t, uint64(3), d.TotalSupply())

	for _, id := range ids {
		owner, err := d.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, minter, owner)
	}

	ids, err = d.Mint(minter, 2, new(big.Int).Mul(cost, big.NewInt(2)))
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 5}, ids)
}

func TestMintRequiresMinterRole(t *testing.T) {
	d, st := startedDrop(t)
	st.AddBalance(carol, new(big.Int).Mul(cost, big.NewInt(10)))

	_, err := d.Mint(carol, 1, cost)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrUnauthorized))
	assert.Equal(t, uint64(0), d.TotalSupply())
}

func TestMintAmountBounds(t *testing.T) {
	d, _ := startedDrop(t)

	_, err := d.Mint(minter, 0, big.NewInt(0))
	assert.True(t, errors.Is(err, token.ErrInvalidAmount))

	_, err = d.Mint(minter, 6, new(big.Int).Mul(cost, big.NewInt(6)))
	assert.True(t, errors.Is(err, token.ErrInvalidAmount))

	assert.Equal(t, uint64(0), d.TotalSupply())
}

func TestMintSupplyCap(t *testing.T) {
	d, st := startedDrop(t)

	st.UpdateConfig(func(cfg *state.ContractConfig) { cfg.MaxSupply = 4 })

	_, err := d.Mint(minter, 3, new(big.Int).Mul(cost, big.NewInt(3)))
	require.NoError(t, err)

	// 3 issued, 4 max: a batch of 2 must fail atomically
	_, err = d.Mint(minter, 2, new(big.Int).Mul(cost, big.NewInt(2)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrSupplyExceeded))
	assert.Equal(t, uint64(3), d.TotalSupply())

	_, err = d.Mint(minter, 1, cost)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), d.TotalSupply())
}

func TestMintPayment(t *testing.T) {
	d, st := startedDrop(t)

	// exact price
	_, err := d.Mint(minter, 1, cost)
	require.NoError(t, err)
	assert.Equal(t, cost, st.GetBalance(vault))

	// half price fails and issues nothing
	_, err = d.Mint(minter, 1, new(big.Int).Div(cost, big.NewInt(2)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrInsufficientPayment))
	assert.Equal(t, uint64(1), d.TotalSupply())
}

// -------------------------
// Sale gate / whitelist
// -------------------------

func TestSaleGateBeforeStart(t *testing.T) {
	d, st := newDrop(t)

	_, err := d.Mint(minter, 1, cost)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrSaleNotStarted))

	// whitelisted minter bypasses the gate
	st.SetWhitelisted(minter, true)
	_, err = d.Mint(minter, 1, cost)
	require.NoError(t, err)
}

func TestSaleGateAfterStartIgnoresWhitelist(t *testing.T) {
	d, _ := startedDrop(t)

	// not whitelisted, but the sale is open
	_, err := d.Mint(minter, 1, cost)
	require.NoError(t, err)
}

func TestStartIsOneWayAndIdempotent(t *testing.T) {
	d, _ := newDrop(t)

	err := d.Start(carol)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrUnauthorized))

	require.NoError(t, d.Start(admin))
	assert.True(t, d.Config().Started)

	// second start is a no-op success
	require.NoError(t, d.Start(admin))
	assert.True(t, d.Config().Started)
}

func TestMintForAddressGateAsymmetry(t *testing.T) {
	d, st := newDrop(t)

	// before start, minting to a non-whitelisted receiver fails even
	// for the admin
	_, err := d.MintForAddress(admin, carol, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrSaleNotStarted))

	// whitelisting the receiver lets the admin mint early
	st.SetWhitelisted(carol, true)
	ids, err := d.MintForAddress(admin, carol, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)

	owner, err := d.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, carol, owner)
}

func TestMintForAddressAdminOnly(t *testing.T) {
	d, _ := startedDrop(t)

	_, err := d.MintForAddress(minter, carol, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrUnauthorized))
}

// -------------------------
// Burn
// -------------------------

func TestBurn(t *testing.T) {
	d, _ := startedDrop(t)

	_, err := d.Mint(minter, 3, new(big.Int).Mul(cost, big.NewInt(3)))
	require.NoError(t, err)

	require.NoError(t, d.Burn(minter, 2))

	assert.Equal(t, []uint64{1, 3}, d.WalletOfOwner(minter))

	_, err = d.OwnerOf(2)
	assert.True(t, errors.Is(err, token.ErrNoSuchToken))

	_, err = d.TokenURI(2)
	assert.True(t, errors.Is(err, token.ErrNoSuchToken))

	// burning again: the id no longer exists
	err = d.Burn(minter, 2)
	assert.True(t, errors.Is(err, token.ErrNoSuchToken))

	// the issued counter still counts the burned token
	assert.Equal(t, uint64(3), d.TotalSupply())

	// the id is never reissued
	ids, err := d.Mint(minter, 1, cost)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, ids)
}

func TestBurnNotOwner(t *testing.T) {
	d, _ := startedDrop(t)

	_, err := d.Mint(minter, 1, cost)
	require.NoError(t, err)

	err = d.Burn(carol, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrNotOwner))

	err = d.Burn(carol, 99)
	assert.True(t, errors.Is(err, token.ErrNoSuchToken))
}

func TestWalletOfOwnerSortedNoDuplicates(t *testing.T) {
	d, _ := startedDrop(t)

	_, err := d.Mint(minter, 5, new(big.Int).Mul(cost, big.NewInt(5)))
	require.NoError(t, err)
	require.NoError(t, d.Burn(minter, 3))
	_, err = d.Mint(minter, 2, new(big.Int).Mul(cost, big.NewInt(2)))
	require.NoError(t, err)

	wallet := d.WalletOfOwner(minter)
	assert.Equal(t, []uint64{1, 2, 4, 5, 6, 7}, wallet)

	assert.Empty(t, d.WalletOfOwner(carol))
}

// -------------------------
// Pause
// -------------------------

func TestPauseBlocksMintAndBurn(t *testing.T) {
	d, _ := startedDrop(t)

	_, err := d.Mint(minter, 1, cost)
	require.NoError(t, err)

	require.NoError(t, d.Pause(admin))

	_, err = d.Mint(minter, 1, cost)
	assert.True(t, errors.Is(err, token.ErrContractPaused))

	err = d.Burn(minter, 1)
	assert.True(t, errors.Is(err, token.ErrContractPaused))

	_, err = d.MintForAddress(admin, minter, 1)
	assert.True(t, errors.Is(err, token.ErrContractPaused))

	// admin setters still work while paused
	require.NoError(t, d.SetCost(admin, big.NewInt(1)))
	require.NoError(t, d.SetRevealed(admin, true))
	require.NoError(t, d.SetUriPrefix(admin, "p/"))

	require.NoError(t, d.Unpause(admin))
	_, err = d.Mint(minter, 1, big.NewInt(1))
	require.NoError(t, err)
}

func TestPauseAdminOnly(t *testing.T) {
	d, _ := startedDrop(t)

	err := d.Pause(minter)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrUnauthorized))
}

// -------------------------
// Metadata URI
// -------------------------

func TestTokenURIHiddenAndRevealed(t *testing.T) {
	d, _ := startedDrop(t)

	_, err := d.Mint(minter, 5, new(big.Int).Mul(cost, big.NewInt(5)))
	require.NoError(t, err)
	_, err = d.Mint(minter, 2, new(big.Int).Mul(cost, big.NewInt(2)))
	require.NoError(t, err)

	// hidden until revealed
	uri, err := d.TokenURI(7)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://hidden.json", uri)

	require.NoError(t, d.SetRevealed(admin, true))

	// revealed but no prefix configured: empty string
	uri, err = d.TokenURI(7)
	require.NoError(t, err)
	assert.Equal(t, "", uri)

	require.NoError(t, d.SetUriPrefix(admin, "p/"))
	require.NoError(t, d.SetUriSuffix(admin, ".json"))

	uri, err = d.TokenURI(7)
	require.NoError(t, err)
	assert.Equal(t, "p/7.json", uri)

	_, err = d.TokenURI(42)
	assert.True(t, errors.Is(err, token.ErrNoSuchToken))
}

// -------------------------
// Treasury
// -------------------------

func TestWithdrawSweepsVault(t *testing.T) {
	d, st := startedDrop(t)

	_, err := d.Mint(minter, 2, new(big.Int).Mul(cost, big.NewInt(2)))
	require.NoError(t, err)

	expected := new(big.Int).Mul(cost, big.NewInt(2))
	assert.Equal(t, expected, d.VaultBalance())

	amount, err := d.Withdraw(admin)
	require.NoError(t, err)
	assert.Equal(t, expected, amount)
	assert.Equal(t, big.NewInt(0), d.VaultBalance())
	assert.Equal(t, expected, st.GetBalance(payout))
}

func TestWithdrawTransferFailure(t *testing.T) {
	d, st := startedDrop(t)

	_, err := d.Mint(minter, 1, cost)
	require.NoError(t, err)

	// corrupt the vault so the sweep cannot debit it; the whole
	// withdrawal must fail with nothing reaching the payout address
	st.SetBalance(vault, big.NewInt(-1))

	_, err = d.Withdraw(admin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrTransferFailed))
	assert.Equal(t, big.NewInt(0), st.GetBalance(payout))
}

func TestWithdrawAdminOnly(t *testing.T) {
	d, _ := startedDrop(t)

	_, err := d.Withdraw(minter)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrUnauthorized))
}

// -------------------------
// Role management through the drop
// -------------------------

func TestGrantRevokeMinterRole(t *testing.T) {
	d, st := startedDrop(t)
	st.AddBalance(carol, new(big.Int).Mul(cost, big.NewInt(10)))

	require.NoError(t, d.GrantMinterRole(admin, carol))

	_, err := d.Mint(carol, 1, cost)
	require.NoError(t, err)

	require.NoError(t, d.RevokeMinterRole(admin, carol))

	_, err = d.Mint(carol, 1, cost)
	assert.True(t, errors.Is(err, token.ErrUnauthorized))

	// non-admins cannot manage the role
	err = d.GrantMinterRole(carol, carol)
	assert.True(t, errors.Is(err, token.ErrUnauthorized))
}

// -------------------------
// End-to-end drop scenario
// -------------------------

func TestDropScenario(t *testing.T) {
	d, st := newDrop(t)

	// grant Minter to A, start the sale
	a := common.HexToAddress("0x0000000000000000000000000000000000000caa")
	st.AddBalance(a, new(big.Int).Mul(cost, big.NewInt(10)))
	require.NoError(t, d.GrantMinterRole(admin, a))
	require.NoError(t, d.Start(admin))

	// A mints 1 paying 0.01: succeeds, owns id 1
	ids, err := d.Mint(a, 1, cost)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids)
	assert.Equal(t, uint64(1), d.TotalSupply())

	owner, err := d.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, a, owner)

	// A mints 1 paying 0.005: fails, issued count unchanged
	_, err = d.Mint(a, 1, new(big.Int).Div(cost, big.NewInt(2)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrInsufficientPayment))
	assert.Equal(t, uint64(1), d.TotalSupply())
}
