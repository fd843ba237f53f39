package exec

import (
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Starloss/iris-chain/core/types"
	"github.com/Starloss/iris-chain/events"
	"github.com/Starloss/iris-chain/log"
	"github.com/Starloss/iris-chain/modules/access"
	"github.com/Starloss/iris-chain/modules/eyes"
	"github.com/Starloss/iris-chain/modules/iris"
	"github.com/Starloss/iris-chain/state"
)

const chainID = 7177

var (
	vault  = common.HexToAddress("0x0000000000000000000000000000000000000dfe")
	payout = common.HexToAddress("0x0000000000000000000000000000000000000dff")
	cost   = big.NewInt(100)
)

type fixture struct {
	exec   *Executor
	state  *state.State
	bus    *events.EventBus
	admin  *ecdsa.PrivateKey
	minter *ecdsa.PrivateKey
}

func addr(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := state.NewState(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	minterKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	st.SetRole(access.RoleAdmin, addr(adminKey), true)
	st.SetRole(access.RoleMinter, addr(minterKey), true)
	st.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.Cost = cost
		cfg.IrisCost = big.NewInt(1)
		cfg.MaxSupply = 10
		cfg.MaxMintAmountPerTx = 5
		cfg.Vault = vault
		cfg.Payout = payout
		cfg.Started = true
	})
	st.AddBalance(addr(minterKey), big.NewInt(100_000))
	require.NoError(t, st.Commit())

	acl := access.NewRegistry(st)
	bus := events.NewEventBus()
	logger := log.NewLogger("error")

	ex := NewExecutor(chainID, st, iris.NewLedger(st, acl), eyes.NewDrop(st, acl), bus, logger)
	ex.Start()
	t.Cleanup(ex.Stop)

	return &fixture{exec: ex, state: st, bus: bus, admin: adminKey, minter: minterKey}
}

func (f *fixture) signedCall(t *testing.T, key *ecdsa.PrivateKey, method string, params interface{}, value *big.Int) *types.Call {
	t.Helper()

	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		raw = data
	}

	call := &types.Call{
		ChainID: chainID,
		Nonce:   f.state.GetNonce(addr(key)),
		From:    addr(key),
		Method:  method,
		Params:  raw,
		Value:   value,
	}
	require.NoError(t, call.Sign(key))
	return call
}

func TestMintCallEndToEnd(t *testing.T) {
	f := newFixture(t)

	call := f.signedCall(t, f.minter, "eyes_mint",
		map[string]uint64{"amount": 2}, new(big.Int).Mul(cost, big.NewInt(2)))

	receipt, err := f.exec.Submit(call)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSuccess, receipt.Status)
	assert.Empty(t, receipt.Error)
	assert.Len(t, receipt.Events, 2)
	assert.Equal(t, "EyeMinted", receipt.Events[0].Name)

	assert.Equal(t, uint64(2), f.state.Issued())
	assert.Equal(t, []uint64{1, 2}, f.state.Holdings(addr(f.minter)))
	assert.Equal(t, uint64(1), f.state.GetNonce(addr(f.minter)))
}

func TestFailedCallRevertsEverything(t *testing.T) {
	f := newFixture(t)

	before := f.state.GetBalance(addr(f.minter))

	// batch larger than the remaining supply: must fail atomically
	call := f.signedCall(t, f.minter, "eyes_mint",
		map[string]uint64{"amount": 5}, new(big.Int).Mul(cost, big.NewInt(5)))

	f.state.UpdateConfig(func(cfg *state.ContractConfig) { cfg.MaxSupply = 3 })

	receipt, err := f.exec.Submit(call)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, receipt.Status)
	assert.Contains(t, receipt.Error, "max supply exceeded")
	assert.Empty(t, receipt.Events)

	// no tokens, no payment moved
	assert.Equal(t, uint64(0), f.state.Issued())
	assert.Equal(t, before, f.state.GetBalance(addr(f.minter)))
	assert.Equal(t, big.NewInt(0), f.state.GetBalance(vault))

	// the call was still consumed
	assert.Equal(t, uint64(1), f.state.GetNonce(addr(f.minter)))
}

func TestNonceReplayRejected(t *testing.T) {
	f := newFixture(t)

	call := f.signedCall(t, f.minter, "eyes_mint",
		map[string]uint64{"amount": 1}, cost)

	_, err := f.exec.Submit(call)
	require.NoError(t, err)

	// same signed call again: stale nonce
	_, err = f.exec.Submit(call)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad nonce")
	assert.Equal(t, uint64(1), f.state.Issued())
}

func TestSenderMustMatchSignature(t *testing.T) {
	f := newFixture(t)

	call := f.signedCall(t, f.minter, "eyes_mint",
		map[string]uint64{"amount": 1}, cost)
	call.From = addr(f.admin) // forged sender

	_, err := f.exec.Submit(call)
	require.Error(t, err)
}

func TestUnsignedCallRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.exec.Submit(&types.Call{ChainID: chainID, Method: "eyes_start"})
	require.Error(t, err)
}

func TestWrongChainIDRejected(t *testing.T) {
	f := newFixture(t)

	call := f.signedCall(t, f.minter, "eyes_mint",
		map[string]uint64{"amount": 1}, cost)
	call.ChainID = 1

	_, err := f.exec.Submit(call)
	require.Error(t, err)
}

func TestUnknownMethodFailsReceipt(t *testing.T) {
	f := newFixture(t)

	call := f.signedCall(t, f.minter, "eyes_fly", nil, nil)

	receipt, err := f.exec.Submit(call)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, receipt.Status)
	assert.Contains(t, receipt.Error, "unknown method")
}

func TestAdminFlowThroughCalls(t *testing.T) {
	f := newFixture(t)

	carolKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	carol := addr(carolKey)
	f.state.AddBalance(carol, big.NewInt(10_000))

	// admin grants Minter to carol
	grant := f.signedCall(t, f.admin, "eyes_grantMinterRole",
		map[string]string{"address": carol.Hex()}, nil)
	receipt, err := f.exec.Submit(grant)
	require.NoError(t, err)
	require.Equal(t, types.StatusSuccess, receipt.Status)

	// carol mints
	mint := f.signedCall(t, carolKey, "eyes_mint",
		map[string]uint64{"amount": 1}, cost)
	receipt, err = f.exec.Submit(mint)
	require.NoError(t, err)
	require.Equal(t, types.StatusSuccess, receipt.Status)
	assert.Equal(t, []uint64{1}, f.state.Holdings(carol))

	// admin withdraws the vault to the payout address
	withdraw := f.signedCall(t, f.admin, "eyes_withdraw", nil, nil)
	receipt, err = f.exec.Submit(withdraw)
	require.NoError(t, err)
	require.Equal(t, types.StatusSuccess, receipt.Status)
	assert.Equal(t, big.NewInt(0), f.state.GetBalance(vault))
	assert.Equal(t, cost, f.state.GetBalance(payout))
}

func TestIrisMintThroughCall(t *testing.T) {
	f := newFixture(t)

	call := f.signedCall(t, f.minter, "iris_mint",
		map[string]string{"amount": "50"}, big.NewInt(50))

	receipt, err := f.exec.Submit(call)
	require.NoError(t, err)
	require.Equal(t, types.StatusSuccess, receipt.Status)

	assert.Equal(t, big.NewInt(50), f.state.GetIrisBalance(addr(f.minter)))
	assert.Equal(t, big.NewInt(50), f.state.IrisSupply())
}

func TestChainSend(t *testing.T) {
	f := newFixture(t)

	to := common.HexToAddress("0x0000000000000000000000000000000000000d42")

	call := f.signedCall(t, f.minter, "chain_send",
		map[string]string{"to": to.Hex(), "amount": "123"}, nil)

	receipt, err := f.exec.Submit(call)
	require.NoError(t, err)
	require.Equal(t, types.StatusSuccess, receipt.Status)
	assert.Equal(t, big.NewInt(123), f.state.GetBalance(to))
}

func TestReceiptsReachSubscribers(t *testing.T) {
	f := newFixture(t)

	receipts := f.bus.SubscribeReceipts()
	evs := f.bus.SubscribeEvents()

	call := f.signedCall(t, f.minter, "eyes_mint",
		map[string]uint64{"amount": 1}, cost)
	_, err := f.exec.Submit(call)
	require.NoError(t, err)

	receipt := <-receipts
	assert.Equal(t, "eyes_mint", receipt.Method)

	ev := <-evs
	assert.Equal(t, "EyeMinted", ev.Name)
}
