package state

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/Starloss/iris-chain/core/types"
)

// EyeToken is one non-fungible token record. Ids are issued sequentially
// starting at 1 and are never reused: a burned token keeps its record
// with Burned set so the id stays retired forever.
type EyeToken struct {
	Owner  common.Address `json:"owner"`
	Burned bool           `json:"burned"`
}

// State is the in-memory working copy of the whole contract state,
// backed by LevelDB. Mutations mark their key dirty; Commit writes all
// dirty keys in one batch. Snapshot/Revert give the executor
// whole-call atomicity.
//
// The executor goroutine is the only writer, but the RPC and explorer
// handlers read concurrently, so every exported method takes mu. The
// unexported helpers expect the caller to hold it.
type State struct {
	mu sync.RWMutex
	db *StateDB

	accounts   map[string]*Account   // addr hex -> account
	tokens     map[uint64]*EyeToken  // token id -> record
	holdings   map[string][]uint64   // owner hex -> ascending token ids
	issued     uint64                // highest issued Eye id (never decrements)
	irisSupply *big.Int              // sum of all Iris balances
	config     *ContractConfig
	roles      map[string]map[string]bool // role -> addr hex -> member
	whitelist  map[string]bool            // addr hex -> allowed

	events []types.Event // journal of the call in flight

	dirty map[string]struct{} // LevelDB keys touched since last commit
}

// NewState opens the StateDB at path and loads everything into memory.
func NewState(path string) (*State, error) {
	db, err := NewStateDB(path)
	if err != nil {
		return nil, err
	}

	s := &State{
		db:         db,
		accounts:   map[string]*Account{},
		tokens:     map[uint64]*EyeToken{},
		holdings:   map[string][]uint64{},
		irisSupply: big.NewInt(0),
		config:     newContractConfig(),
		roles:      map[string]map[string]bool{},
		whitelist:  map[string]bool{},
		dirty:      map[string]struct{}{},
	}

	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *State) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ------------------- LOAD ---------------------

func (s *State) load() error {
	err := s.db.ForEachPrefix(keyAccountPrefix, func(key string, value []byte) error {
		acc := &Account{}
		if err := json.Unmarshal(value, acc); err != nil {
			return err
		}
		acc.normalize()
		s.accounts[key] = acc
		return nil
	})
	if err != nil {
		return err
	}

	err = s.db.ForEachPrefix(keyTokenPrefix, func(key string, value []byte) error {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return err
		}
		tok := &EyeToken{}
		if err := json.Unmarshal(value, tok); err != nil {
			return err
		}
		s.tokens[id] = tok
		return nil
	})
	if err != nil {
		return err
	}

	err = s.db.ForEachPrefix(keyWalletPrefix, func(key string, value []byte) error {
		var ids []uint64
		if err := json.Unmarshal(value, &ids); err != nil {
			return err
		}
		s.holdings[key] = ids
		return nil
	})
	if err != nil {
		return err
	}

	if data, err := s.db.Get(keyIssued); err != nil {
		return err
	} else if data != nil {
		s.issued, err = strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return err
		}
	}

	if data, err := s.db.Get(keyIrisSupply); err != nil {
		return err
	} else if data != nil {
		supply, ok := new(big.Int).SetString(string(data), 10)
		if !ok {
			return fmt.Errorf("corrupt iris supply: %q", data)
		}
		s.irisSupply = supply
	}

	if data, err := s.db.Get(keyConfig); err != nil {
		return err
	} else if data != nil {
		if err := json.Unmarshal(data, s.config); err != nil {
			return err
		}
		s.config.normalize()
	}

	if data, err := s.db.Get(keyRoles); err != nil {
		return err
	} else if data != nil {
		if err := json.Unmarshal(data, &s.roles); err != nil {
			return err
		}
	}

	if data, err := s.db.Get(keyWhitelist); err != nil {
		return err
	} else if data != nil {
		if err := json.Unmarshal(data, &s.whitelist); err != nil {
			return err
		}
	}

	return nil
}

// ------------------- COMMIT ---------------------

func (s *State) markDirty(key string) {
	s.dirty[key] = struct{}{}
}

// Commit writes every dirty key to LevelDB in a single batch.
func (s *State) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.dirty) == 0 {
		return nil
	}

	batch := new(leveldb.Batch)

	for key := range s.dirty {
		var (
			data []byte
			err  error
		)

		switch {
		case key == keyIssued:
			data = []byte(strconv.FormatUint(s.issued, 10))
		case key == keyIrisSupply:
			data = []byte(s.irisSupply.String())
		case key == keyConfig:
			data, err = json.Marshal(s.config)
		case key == keyRoles:
			data, err = json.Marshal(s.roles)
		case key == keyWhitelist:
			data, err = json.Marshal(s.whitelist)
		case strings.HasPrefix(key, keyAccountPrefix):
			data, err = json.Marshal(s.accounts[key[len(keyAccountPrefix):]])
		case strings.HasPrefix(key, keyTokenPrefix):
			id, perr := strconv.ParseUint(key[len(keyTokenPrefix):], 10, 64)
			if perr != nil {
				return perr
			}
			data, err = json.Marshal(s.tokens[id])
		case strings.HasPrefix(key, keyWalletPrefix):
			ids := s.holdings[key[len(keyWalletPrefix):]]
			if ids == nil {
				ids = []uint64{}
			}
			data, err = json.Marshal(ids)
		default:
			return fmt.Errorf("unknown state key: %s", key)
		}
		if err != nil {
			return err
		}

		batch.Put([]byte(key), data)
	}

	if err := s.db.Write(batch); err != nil {
		return err
	}

	s.dirty = map[string]struct{}{}
	return nil
}

// ------------------- SNAPSHOT / REVERT ---------------------

// Snapshot is a deep copy of the working state, taken before a call runs.
type Snapshot struct {
	accounts   map[string]*Account
	tokens     map[uint64]*EyeToken
	holdings   map[string][]uint64
	issued     uint64
	irisSupply *big.Int
	config     *ContractConfig
	roles      map[string]map[string]bool
	whitelist  map[string]bool
	events     []types.Event
	dirty      map[string]struct{}
}

func (s *State) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		accounts:   make(map[string]*Account, len(s.accounts)),
		tokens:     make(map[uint64]*EyeToken, len(s.tokens)),
		holdings:   make(map[string][]uint64, len(s.holdings)),
		issued:     s.issued,
		irisSupply: new(big.Int).Set(s.irisSupply),
		config:     s.config.Copy(),
		roles:      make(map[string]map[string]bool, len(s.roles)),
		whitelist:  make(map[string]bool, len(s.whitelist)),
		events:     append([]types.Event(nil), s.events...),
		dirty:      make(map[string]struct{}, len(s.dirty)),
	}

	for k, v := range s.accounts {
		snap.accounts[k] = v.Copy()
	}
	for k, v := range s.tokens {
		cp := *v
		snap.tokens[k] = &cp
	}
	for k, v := range s.holdings {
		snap.holdings[k] = append([]uint64(nil), v...)
	}
	for role, members := range s.roles {
		cp := make(map[string]bool, len(members))
		for a, m := range members {
			cp[a] = m
		}
		snap.roles[role] = cp
	}
	for k, v := range s.whitelist {
		snap.whitelist[k] = v
	}
	for k := range s.dirty {
		snap.dirty[k] = struct{}{}
	}

	return snap
}

// Revert restores the working state to the snapshot, discarding every
// change (and event) recorded since it was taken.
func (s *State) Revert(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = snap.accounts
	s.tokens = snap.tokens
	s.holdings = snap.holdings
	s.issued = snap.issued
	s.irisSupply = snap.irisSupply
	s.config = snap.config
	s.roles = snap.roles
	s.whitelist = snap.whitelist
	s.events = snap.events
	s.dirty = snap.dirty
}

// ------------------- EVENTS ---------------------

// AppendEvent records a contract event for the call in flight. The
// executor drains the journal into the receipt on success; Revert
// discards it on failure.
func (s *State) AppendEvent(name string, attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, types.Event{Name: name, Attrs: attrs})
}

func (s *State) TakeEvents() []types.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

// ------------------- ACCOUNTS ---------------------

func (s *State) getOrCreate(addr common.Address) *Account {
	key := addr.Hex()

	if acc, ok := s.accounts[key]; ok {
		return acc
	}

	acc := NewAccount()
	s.accounts[key] = acc
	return acc
}

func (s *State) touchAccount(addr common.Address) *Account {
	s.markDirty(keyAccountPrefix + addr.Hex())
	return s.getOrCreate(addr)
}

// account is the read-only lookup: unknown addresses return nil rather
// than materializing an empty record.
func (s *State) account(addr common.Address) *Account {
	return s.accounts[addr.Hex()]
}

func (s *State) GetBalance(addr common.Address) *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if acc := s.account(addr); acc != nil {
		return new(big.Int).Set(acc.Balance)
	}
	return big.NewInt(0)
}

func (s *State) SetBalance(addr common.Address, amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// copy so callers cannot mutate through the pointer afterwards
	s.touchAccount(addr).Balance = new(big.Int).Set(amount)
}

func (s *State) GetNonce(addr common.Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if acc := s.account(addr); acc != nil {
		return acc.Nonce
	}
	return 0
}

func (s *State) IncreaseNonce(addr common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchAccount(addr).Nonce++
}

// ------------------- IRIS LEDGER ---------------------

func (s *State) GetIrisBalance(addr common.Address) *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if acc := s.account(addr); acc != nil {
		return new(big.Int).Set(acc.Iris)
	}
	return big.NewInt(0)
}

func (s *State) IrisSupply() *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(big.Int).Set(s.irisSupply)
}

func (s *State) GetAllowance(owner, spender common.Address) *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc := s.account(owner)
	if acc == nil || acc.Allowance == nil {
		return big.NewInt(0)
	}
	if v, ok := acc.Allowance[spender.Hex()]; ok {
		return new(big.Int).Set(v)
	}
	return big.NewInt(0)
}

func (s *State) SetAllowance(owner, spender common.Address, amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.touchAccount(owner)
	if acc.Allowance == nil {
		acc.Allowance = map[string]*big.Int{}
	}
	acc.Allowance[spender.Hex()] = new(big.Int).Set(amount)
}

// ------------------- EYES LEDGER ---------------------

func (s *State) Issued() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issued
}

// IssueEye mints the next sequential id to the receiver and returns it.
// New ids are strictly larger than anything the receiver already holds,
// so appending keeps the wallet list ascending.
func (s *State) IssueEye(receiver common.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	id := s.issued

	s.tokens[id] = &EyeToken{Owner: receiver}
	key := receiver.Hex()
	s.holdings[key] = append(s.holdings[key], id)

	s.markDirty(keyIssued)
	s.markDirty(keyTokenPrefix + strconv.FormatUint(id, 10))
	s.markDirty(keyWalletPrefix + key)
	return id
}

// Token returns a copy of the record for an id; ok is false if the id
// was never issued.
func (s *State) Token(id uint64) (EyeToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tok, ok := s.tokens[id]
	if !ok {
		return EyeToken{}, false
	}
	return *tok, true
}

// BurnEye retires the id permanently and drops it from the owner wallet.
func (s *State) BurnEye(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[id]
	if !ok || tok.Burned {
		return
	}

	key := tok.Owner.Hex()
	ids := s.holdings[key]
	for i, owned := range ids {
		if owned == id {
			s.holdings[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	tok.Burned = true
	s.markDirty(keyTokenPrefix + strconv.FormatUint(id, 10))
	s.markDirty(keyWalletPrefix + key)
}

// Holdings returns the owner's token ids, ascending.
func (s *State) Holdings(owner common.Address) []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]uint64{}, s.holdings[owner.Hex()]...)
}

// ------------------- ROLES & WHITELIST ---------------------

func (s *State) HasRole(role string, addr common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members, ok := s.roles[role]
	return ok && members[addr.Hex()]
}

func (s *State) SetRole(role string, addr common.Address, member bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.roles[role]
	if !ok {
		members = map[string]bool{}
		s.roles[role] = members
	}
	if member {
		members[addr.Hex()] = true
	} else {
		delete(members, addr.Hex())
	}
	s.markDirty(keyRoles)
}

func (s *State) Whitelisted(addr common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.whitelist[addr.Hex()]
}

func (s *State) SetWhitelisted(addr common.Address, allowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if allowed {
		s.whitelist[addr.Hex()] = true
	} else {
		delete(s.whitelist, addr.Hex())
	}
	s.markDirty(keyWhitelist)
}

// ------------------- CONFIG ---------------------

// Config returns a copy; mutate through UpdateConfig.
func (s *State) Config() *ContractConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Copy()
}

func (s *State) UpdateConfig(fn func(cfg *ContractConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.config)
	s.config.normalize()
	s.markDirty(keyConfig)
}
