package explorer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Utility response
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// ------------------------------------------------------------
// 1. /explorer/supply
// ------------------------------------------------------------
func (api *ExplorerAPI) handleSupply(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"irisTotalSupply": api.Iris.TotalSupply().String(),
		"eyesIssued":      api.Eyes.TotalSupply(),
		"eyesMaxSupply":   api.Eyes.MaxSupply(),
		"vaultBalance":    api.Eyes.VaultBalance().String(),
	})
}

// ------------------------------------------------------------
// 2. /explorer/config
// ------------------------------------------------------------
func (api *ExplorerAPI) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.Eyes.Config())
}

// ------------------------------------------------------------
// 3. /explorer/token/{id}
// ------------------------------------------------------------
func (api *ExplorerAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 4 {
		writeJSON(w, "invalid URL")
		return
	}

	id, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		writeJSON(w, "invalid token id")
		return
	}

	owner, err := api.Eyes.OwnerOf(id)
	if err != nil {
		writeJSON(w, "token not found")
		return
	}

	uri, _ := api.Eyes.TokenURI(id)

	writeJSON(w, map[string]interface{}{
		"tokenId": id,
		"owner":   owner.Hex(),
		"uri":     uri,
	})
}

// ------------------------------------------------------------
// 4. /explorer/wallet/{address}
// ------------------------------------------------------------
func (api *ExplorerAPI) handleWallet(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 4 {
		writeJSON(w, "invalid URL")
		return
	}

	owner := common.HexToAddress(parts[3])

	writeJSON(w, map[string]interface{}{
		"owner":  owner.Hex(),
		"tokens": api.Eyes.WalletOfOwner(owner),
	})
}

// ------------------------------------------------------------
// 5. /explorer/account/{address}
// ------------------------------------------------------------
func (api *ExplorerAPI) handleAccount(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 4 {
		writeJSON(w, "invalid URL")
		return
	}

	addr := common.HexToAddress(parts[3])

	writeJSON(w, map[string]interface{}{
		"address":     addr.Hex(),
		"balance":     api.State.GetBalance(addr).String(),
		"irisBalance": api.Iris.BalanceOf(addr).String(),
		"eyes":        api.Eyes.WalletOfOwner(addr),
		"nonce":       api.State.GetNonce(addr),
	})
}

// ------------------------------------------------------------
// 6. SSE streams
// ------------------------------------------------------------

func sseSetup(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return flusher, true
}

func (api *ExplorerAPI) handleStreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := sseSetup(w)
	if !ok {
		return
	}

	ch := api.Events.SubscribeEvents()

	for {
		select {
		case ev := <-ch:
			data, _ := json.Marshal(ev)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (api *ExplorerAPI) handleStreamReceipts(w http.ResponseWriter, r *http.Request) {
	flusher, ok := sseSetup(w)
	if !ok {
		return
	}

	ch := api.Events.SubscribeReceipts()

	for {
		select {
		case receipt := <-ch:
			data, _ := json.Marshal(receipt)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
