package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Starloss/iris-chain/events"
	"github.com/Starloss/iris-chain/exec"
	"github.com/Starloss/iris-chain/log"
	"github.com/Starloss/iris-chain/modules/eyes"
	"github.com/Starloss/iris-chain/modules/iris"
	"github.com/Starloss/iris-chain/state"
)

type Server struct {
	exec   *exec.Executor
	iris   *iris.Ledger
	eyes   *eyes.Drop
	state  *state.State
	bus    *events.EventBus
	hub    *WebSocketHub
	logger *log.Logger

	httpServer *http.Server
}

func NewServer(
	executor *exec.Executor,
	irisLedger *iris.Ledger,
	eyesDrop *eyes.Drop,
	st *state.State,
	bus *events.EventBus,
	logger *log.Logger,
) *Server {
	return &Server{
		exec:   executor,
		iris:   irisLedger,
		eyes:   eyesDrop,
		state:  st,
		bus:    bus,
		hub:    NewWebSocketHub(),
		logger: logger,
	}
}

//
// ------------------------------------------------------------
// JSON RESPONSE HELPERS
// ------------------------------------------------------------
//

func writeJSON(w http.ResponseWriter, id interface{}, result interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")

	resp := RPCResponse{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Result = result
	}
	json.NewEncoder(w).Encode(resp)
}

//
// ------------------------------------------------------------
// JSON-RPC HANDLER
// ------------------------------------------------------------
//

func (s *Server) HandleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var req RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, nil, nil, fmt.Errorf("invalid request: %v", err))
		return
	}

	switch req.Method {

	//
	// WRITES (signed calls through the executor)
	//
	case "chain_sendCall":
		result, err := s.handleSendCall(req.Params)
		writeJSON(w, req.ID, result, err)

	//
	// READS
	//
	default:
		result, err := s.handleRead(req.Method, req.Params)
		writeJSON(w, req.ID, result, err)
	}
}

//
// ------------------------------------------------------------
// RPC SERVER STARTUP
// ------------------------------------------------------------
//

func (s *Server) Start(port int) {
	mux := http.NewServeMux()

	// JSON-RPC
	mux.HandleFunc("/", s.HandleJSONRPC)

	// Websocket event stream
	mux.HandleFunc("/ws", s.hub.HandleWS)

	go s.hub.Run()
	go s.pumpEvents()

	addr := fmt.Sprintf(":%d", port)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}

	fmt.Println("[RPC] Listening on", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("[RPC] Server error:", err)
		}
	}()
}

func (s *Server) Stop() {
	if s.httpServer != nil {
		s.httpServer.Close()
	}
}

// pumpEvents forwards the bus to connected websocket clients.
func (s *Server) pumpEvents() {
	receipts := s.bus.SubscribeReceipts()
	evs := s.bus.SubscribeEvents()

	for {
		select {
		case r, ok := <-receipts:
			if !ok {
				return
			}
			s.hub.Broadcast(WSMessage{Type: "receipt", Data: r})
		case ev, ok := <-evs:
			if !ok {
				return
			}
			s.hub.Broadcast(WSMessage{Type: "event", Data: ev})
		}
	}
}
