package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Event is a contract event recorded while a call executes. Events of a
// reverted call are discarded together with its state changes.
type Event struct {
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

const (
	StatusFailed  uint64 = 0
	StatusSuccess uint64 = 1
)

type Receipt struct {
	CallHash common.Hash    `json:"callHash"`
	From     common.Address `json:"from"`
	Method   string         `json:"method"`
	Nonce    uint64         `json:"nonce"`

	Status uint64  `json:"status"` // 1 = success
	Error  string  `json:"error,omitempty"`
	Events []Event `json:"events,omitempty"`
}
