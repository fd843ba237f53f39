package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Starloss/iris-chain/core/types"
)

//
// --------------------------------------------------------
//  WRITE: SUBMIT A SIGNED CALL
// --------------------------------------------------------
//

// handleSendCall expects params = [signedCall].
func (s *Server) handleSendCall(params json.RawMessage) (interface{}, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(params, &list); err != nil || len(list) == 0 {
		return nil, errors.New("missing params")
	}

	call := &types.Call{}
	if err := json.Unmarshal(list[0], call); err != nil {
		return nil, fmt.Errorf("invalid call: %v", err)
	}

	receipt, err := s.exec.Submit(call)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

//
// --------------------------------------------------------
//  READS
// --------------------------------------------------------
//

type addressParam struct {
	Address string `json:"address"`
}

type tokenIdParam struct {
	TokenId uint64 `json:"tokenId"`
}

func (s *Server) handleRead(method string, params json.RawMessage) (interface{}, error) {
	switch method {

	//
	// CHAIN
	//
	case "chain_getBalance":
		var p addressParam
		if err := firstParam(params, &p); err != nil {
			return nil, err
		}
		return s.state.GetBalance(common.HexToAddress(p.Address)).String(), nil

	case "chain_getNonce":
		var p addressParam
		if err := firstParam(params, &p); err != nil {
			return nil, err
		}
		return s.state.GetNonce(common.HexToAddress(p.Address)), nil

	//
	// IRIS
	//
	case "iris_balanceOf":
		var p addressParam
		if err := firstParam(params, &p); err != nil {
			return nil, err
		}
		return s.iris.BalanceOf(common.HexToAddress(p.Address)).String(), nil

	case "iris_totalSupply":
		return s.iris.TotalSupply().String(), nil

	case "iris_cost":
		return s.iris.Cost().String(), nil

	case "iris_allowance":
		var p struct {
			Owner   string `json:"owner"`
			Spender string `json:"spender"`
		}
		if err := firstParam(params, &p); err != nil {
			return nil, err
		}
		return s.iris.Allowance(common.HexToAddress(p.Owner), common.HexToAddress(p.Spender)).String(), nil

	//
	// EYES
	//
	case "eyes_ownerOf":
		var p tokenIdParam
		if err := firstParam(params, &p); err != nil {
			return nil, err
		}
		owner, err := s.eyes.OwnerOf(p.TokenId)
		if err != nil {
			return nil, err
		}
		return owner.Hex(), nil

	case "eyes_tokenUri":
		var p tokenIdParam
		if err := firstParam(params, &p); err != nil {
			return nil, err
		}
		return s.eyes.TokenURI(p.TokenId)

	case "eyes_walletOfOwner":
		var p addressParam
		if err := firstParam(params, &p); err != nil {
			return nil, err
		}
		return s.eyes.WalletOfOwner(common.HexToAddress(p.Address)), nil

	case "eyes_totalSupply":
		return s.eyes.TotalSupply(), nil

	case "eyes_maxSupply":
		return s.eyes.MaxSupply(), nil

	case "eyes_vaultBalance":
		return s.eyes.VaultBalance().String(), nil

	case "eyes_config":
		return s.eyes.Config(), nil

	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

// firstParam decodes params[0] into dst.
func firstParam(params json.RawMessage, dst interface{}) error {
	var list []json.RawMessage
	if err := json.Unmarshal(params, &list); err != nil || len(list) == 0 {
		return errors.New("missing params")
	}
	return json.Unmarshal(list[0], dst)
}
