// Package exec runs signed contract calls one at a time. Each call is
// all-or-nothing: the executor snapshots the state, dispatches, and
// either commits every change or reverts to the snapshot, so no
// operation can leave a partial mint batch or a half-moved balance.
package exec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Starloss/iris-chain/core/types"
	"github.com/Starloss/iris-chain/events"
	"github.com/Starloss/iris-chain/log"
	"github.com/Starloss/iris-chain/modules/eyes"
	"github.com/Starloss/iris-chain/modules/iris"
	"github.com/Starloss/iris-chain/state"
)

type Executor struct {
	chainID uint64
	state   *state.State
	iris    *iris.Ledger
	eyes    *eyes.Drop
	bus     *events.EventBus
	logger  *log.Logger

	queue chan *work
	quit  chan struct{}
}

type work struct {
	call *types.Call
	out  chan result
}

type result struct {
	receipt *types.Receipt
	err     error
}

func NewExecutor(
	chainID uint64,
	st *state.State,
	irisLedger *iris.Ledger,
	eyesDrop *eyes.Drop,
	bus *events.EventBus,
	logger *log.Logger,
) *Executor {
	return &Executor{
		chainID: chainID,
		state:   st,
		iris:    irisLedger,
		eyes:    eyesDrop,
		bus:     bus,
		logger:  logger,
		queue:   make(chan *work, 64),
		quit:    make(chan struct{}),
	}
}

func (e *Executor) Start() {
	e.logger.Info("Starting call executor...")

	go func() {
		for {
			select {
			case w := <-e.queue:
				receipt, err := e.apply(w.call)
				w.out <- result{receipt: receipt, err: err}
			case <-e.quit:
				return
			}
		}
	}()
}

func (e *Executor) Stop() {
	e.logger.Info("Stopping call executor...")
	close(e.quit)
}

// Submit queues the call and waits for its receipt. The error return is
// for calls that never execute (bad signature, wrong chain id, wrong
// nonce); contract failures come back as a failed receipt.
func (e *Executor) Submit(call *types.Call) (*types.Receipt, error) {
	if call == nil || !call.IsSigned() {
		return nil, errors.New("call is not signed")
	}

	w := &work{call: call, out: make(chan result, 1)}

	select {
	case e.queue <- w:
	case <-e.quit:
		return nil, errors.New("executor stopped")
	}

	select {
	case res := <-w.out:
		return res.receipt, res.err
	case <-e.quit:
		return nil, errors.New("executor stopped")
	}
}

// ---------------------------------------------------------
// Apply a single call
// ---------------------------------------------------------

func (e *Executor) apply(call *types.Call) (*types.Receipt, error) {
	if call.ChainID != e.chainID {
		return nil, fmt.Errorf("wrong chain id %d", call.ChainID)
	}

	// Recover the sender; the declared From must match the signature.
	from, err := call.Sender()
	if err != nil {
		return nil, fmt.Errorf("invalid call signature: %v", err)
	}
	if from != call.From {
		return nil, errors.New("sender does not match signature")
	}

	if nonce := e.state.GetNonce(from); call.Nonce != nonce {
		return nil, fmt.Errorf("bad nonce %d (expected %d)", call.Nonce, nonce)
	}

	receipt := &types.Receipt{
		CallHash: call.Hash(),
		From:     from,
		Method:   call.Method,
		Nonce:    call.Nonce,
	}

	snap := e.state.Snapshot()
	e.state.TakeEvents() // drop any stale journal

	if err := e.dispatch(call, from); err != nil {
		e.state.Revert(snap)
		receipt.Status = types.StatusFailed
		receipt.Error = err.Error()
		e.logger.Debugf("call %s reverted: %v", call.Method, err)
	} else {
		receipt.Status = types.StatusSuccess
		receipt.Events = e.state.TakeEvents()
	}

	// Reverted calls are still consumed: the nonce always advances.
	e.state.IncreaseNonce(from)

	if err := e.state.Commit(); err != nil {
		return nil, fmt.Errorf("state commit: %v", err)
	}

	e.bus.PublishReceipt(receipt)
	for _, ev := range receipt.Events {
		e.bus.PublishEvent(ev)
	}

	return receipt, nil
}

// ---------------------------------------------------------
// Method dispatch
// ---------------------------------------------------------

func (e *Executor) dispatch(call *types.Call, from common.Address) error {
	value := call.PaymentValue()

	switch call.Method {

	//
	// NATIVE COIN
	//
	case "chain_send":
		var p struct {
			To     string `json:"to"`
			Amount string `json:"amount"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		amount, err := parseBig(p.Amount)
		if err != nil {
			return err
		}
		return e.state.TransferNative(from, common.HexToAddress(p.To), amount)

	//
	// IRIS (fungible)
	//
	case "iris_mint":
		var p struct {
			Amount string `json:"amount"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		amount, err := parseBig(p.Amount)
		if err != nil {
			return err
		}
		return e.iris.Mint(from, amount, value)

	case "iris_transfer":
		var p struct {
			To     string `json:"to"`
			Amount string `json:"amount"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		amount, err := parseBig(p.Amount)
		if err != nil {
			return err
		}
		return e.iris.Transfer(from, common.HexToAddress(p.To), amount)

	case "iris_approve":
		var p struct {
			Spender string `json:"spender"`
			Amount  string `json:"amount"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		amount, err := parseBig(p.Amount)
		if err != nil {
			return err
		}
		return e.iris.Approve(from, common.HexToAddress(p.Spender), amount)

	case "iris_transferFrom":
		var p struct {
			From   string `json:"from"`
			To     string `json:"to"`
			Amount string `json:"amount"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		amount, err := parseBig(p.Amount)
		if err != nil {
			return err
		}
		return e.iris.TransferFrom(from, common.HexToAddress(p.From), common.HexToAddress(p.To), amount)

	case "iris_setCost":
		var p struct {
			Cost string `json:"cost"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		cost, err := parseBig(p.Cost)
		if err != nil {
			return err
		}
		return e.iris.SetCost(from, cost)

	//
	// EYES (non-fungible)
	//
	case "eyes_mint":
		var p struct {
			Amount uint64 `json:"amount"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		_, err := e.eyes.Mint(from, p.Amount, value)
		return err

	case "eyes_mintForAddress":
		var p struct {
			Receiver string `json:"receiver"`
			Amount   uint64 `json:"amount"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		_, err := e.eyes.MintForAddress(from, common.HexToAddress(p.Receiver), p.Amount)
		return err

	case "eyes_burn":
		var p struct {
			TokenId uint64 `json:"tokenId"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.Burn(from, p.TokenId)

	case "eyes_start":
		return e.eyes.Start(from)

	case "eyes_pause":
		return e.eyes.Pause(from)

	case "eyes_unpause":
		return e.eyes.Unpause(from)

	case "eyes_setCost":
		var p struct {
			Cost string `json:"cost"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		cost, err := parseBig(p.Cost)
		if err != nil {
			return err
		}
		return e.eyes.SetCost(from, cost)

	case "eyes_setMaxMintAmountPerTx":
		var p struct {
			Max uint64 `json:"max"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.SetMaxMintAmountPerTx(from, p.Max)

	case "eyes_setRevealed":
		var p struct {
			Revealed bool `json:"revealed"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.SetRevealed(from, p.Revealed)

	case "eyes_setHiddenMetadataUri":
		var p struct {
			Uri string `json:"uri"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.SetHiddenMetadataUri(from, p.Uri)

	case "eyes_setUriPrefix":
		var p struct {
			Prefix string `json:"prefix"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.SetUriPrefix(from, p.Prefix)

	case "eyes_setUriSuffix":
		var p struct {
			Suffix string `json:"suffix"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.SetUriSuffix(from, p.Suffix)

	case "eyes_setWhitelist":
		var p struct {
			Address string `json:"address"`
			Allowed bool   `json:"allowed"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.SetAddressInWhitelist(from, common.HexToAddress(p.Address), p.Allowed)

	case "eyes_grantMinterRole":
		var p struct {
			Address string `json:"address"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.GrantMinterRole(from, common.HexToAddress(p.Address))

	case "eyes_revokeMinterRole":
		var p struct {
			Address string `json:"address"`
		}
		if err := decodeParams(call.Params, &p); err != nil {
			return err
		}
		return e.eyes.RevokeMinterRole(from, common.HexToAddress(p.Address))

	case "eyes_withdraw":
		_, err := e.eyes.Withdraw(from)
		return err

	default:
		return fmt.Errorf("unknown method: %s", call.Method)
	}
}

// ---------------------------------------------------------
// Param helpers
// ---------------------------------------------------------

func decodeParams(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// parseBig decodes a non-negative decimal string.
func parseBig(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount: %q", s)
	}
	return v, nil
}
