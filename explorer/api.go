package explorer

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Starloss/iris-chain/events"
	"github.com/Starloss/iris-chain/modules/eyes"
	"github.com/Starloss/iris-chain/modules/iris"
	"github.com/Starloss/iris-chain/state"
)

// ExplorerAPI is the read-only REST surface plus live SSE streams.
type ExplorerAPI struct {
	State  *state.State
	Iris   *iris.Ledger
	Eyes   *eyes.Drop
	Events *events.EventBus

	server *http.Server
}

func NewExplorerAPI(st *state.State, irisLedger *iris.Ledger, eyesDrop *eyes.Drop, bus *events.EventBus) *ExplorerAPI {
	return &ExplorerAPI{
		State:  st,
		Iris:   irisLedger,
		Eyes:   eyesDrop,
		Events: bus,
	}
}

func (api *ExplorerAPI) Start(port int) {
	mux := http.NewServeMux()

	mux.HandleFunc("/explorer/supply", api.handleSupply)
	mux.HandleFunc("/explorer/config", api.handleConfig)
	mux.HandleFunc("/explorer/token/", api.handleToken)
	mux.HandleFunc("/explorer/wallet/", api.handleWallet)
	mux.HandleFunc("/explorer/account/", api.handleAccount)

	// Live streams (SSE)
	mux.HandleFunc("/explorer/stream/events", api.handleStreamEvents)
	mux.HandleFunc("/explorer/stream/receipts", api.handleStreamReceipts)

	addr := fmt.Sprintf(":%d", port)
	api.server = &http.Server{Addr: addr, Handler: mux}

	log.Printf("[ExplorerAPI] Running on %s\n", addr)
	go api.server.ListenAndServe()
}

func (api *ExplorerAPI) Stop() {
	if api.server != nil {
		api.server.Close()
	}
}
