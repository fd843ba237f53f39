// minttx signs an eyes_mint call with a private key and submits it to a
// running irisd over JSON-RPC.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Starloss/iris-chain/core/types"
	"github.com/Starloss/iris-chain/params"
)

func main() {
	rpcURL := flag.String("rpc", "http://localhost:8545", "irisd RPC endpoint")
	privHex := flag.String("key", "", "hex private key (without 0x)")
	amount := flag.Uint64("amount", 1, "number of Eyes to mint")
	payment := flag.String("payment", "0", "attached payment in wei")

	flag.Parse()

	if *privHex == "" {
		log.Fatal("missing -key")
	}

	privateKey, err := crypto.HexToECDSA(*privHex)
	if err != nil {
		log.Fatal(err)
	}
	from := crypto.PubkeyToAddress(privateKey.PublicKey)

	value, ok := new(big.Int).SetString(*payment, 10)
	if !ok {
		log.Fatal("invalid -payment")
	}

	nonce, err := fetchNonce(*rpcURL, from.Hex())
	if err != nil {
		log.Fatal(err)
	}

	mintParams, _ := json.Marshal(map[string]uint64{"amount": *amount})

	call := &types.Call{
		ChainID: params.IrisChainConfig().ChainID,
		Nonce:   nonce,
		From:    from,
		Method:  "eyes_mint",
		Params:  mintParams,
		Value:   value,
	}

	if err := call.Sign(privateKey); err != nil {
		log.Fatal(err)
	}

	receipt, err := send(*rpcURL, "chain_sendCall", call)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("CALL SENT")
	fmt.Println("From:", from.Hex())
	fmt.Println("Receipt:", string(receipt))
}

// ------------------------------------------------------------
// Minimal JSON-RPC client
// ------------------------------------------------------------

func rpcRequest(url, method string, param interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  []interface{}{param},
		"id":      1,
	})
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  interface{}     `json:"error"`
	}
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, err
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error: %v", rpcResp.Error)
	}
	return rpcResp.Result, nil
}

func fetchNonce(url, address string) (uint64, error) {
	result, err := rpcRequest(url, "chain_getNonce", map[string]string{"address": address})
	if err != nil {
		return 0, err
	}

	var nonce uint64
	if err := json.Unmarshal(result, &nonce); err != nil {
		return 0, err
	}
	return nonce, nil
}

func send(url, method string, call *types.Call) (json.RawMessage, error) {
	return rpcRequest(url, method, call)
}
