package node

import (
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Starloss/iris-chain/events"
	"github.com/Starloss/iris-chain/exec"
	"github.com/Starloss/iris-chain/explorer"
	"github.com/Starloss/iris-chain/log"
	"github.com/Starloss/iris-chain/modules/access"
	"github.com/Starloss/iris-chain/modules/eyes"
	"github.com/Starloss/iris-chain/modules/iris"
	"github.com/Starloss/iris-chain/params"
	"github.com/Starloss/iris-chain/rpc"
	"github.com/Starloss/iris-chain/state"
)

type Node struct {
	Config      *Config
	Logger      *log.Logger
	State       *state.State
	Iris        *iris.Ledger
	Eyes        *eyes.Drop
	Executor    *exec.Executor
	RPCServer   *rpc.Server
	ExplorerAPI *explorer.ExplorerAPI
	Events      *events.EventBus
	Wallets     *SystemWallets
}

func NewNode(cfg *Config) *Node {
	logger := log.NewLogger(cfg.LogLevel)

	return &Node{
		Config: cfg,
		Logger: logger,
	}
}

// VaultAddress is the fixed address payments accrue to. There is no key
// behind it: only Withdraw can move funds out.
func VaultAddress() common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("iris-chain/vault"))[12:])
}

func (n *Node) Start() error {
	n.Logger.Info("Starting Iris node...")
	n.Logger.Infof("Data directory: %s", n.Config.DataDir)
	n.Logger.Infof("RPC port: %d", n.Config.RPCPort)

	chainCfg := params.IrisChainConfig()

	// ------------------------------------------------
	// 1. EventBus
	// ------------------------------------------------
	n.Events = events.NewEventBus()

	// ------------------------------------------------
	// 2. System wallets
	// ------------------------------------------------
	wallets, err := LoadSystemWallets(n.Config.DataDir)
	if err != nil {
		n.Logger.Errorf("Failed to load wallets: %v", err)
		return err
	}
	n.Wallets = wallets

	// ------------------------------------------------
	// 3. State
	// ------------------------------------------------
	st, err := state.NewState(filepath.Join(n.Config.DataDir, "state"))
	if err != nil {
		n.Logger.Errorf("Failed to open state: %v", err)
		return err
	}
	n.State = st

	if err := n.deployIfNeeded(); err != nil {
		return err
	}

	// ------------------------------------------------
	// 4. Contracts
	// ------------------------------------------------
	acl := access.NewRegistry(st)
	n.Iris = iris.NewLedger(st, acl)
	n.Eyes = eyes.NewDrop(st, acl)

	// ------------------------------------------------
	// 5. Call executor
	// ------------------------------------------------
	n.Executor = exec.NewExecutor(chainCfg.ChainID, st, n.Iris, n.Eyes, n.Events, n.Logger)
	n.Executor.Start()

	// ------------------------------------------------
	// 6. RPC server
	// ------------------------------------------------
	n.RPCServer = rpc.NewServer(n.Executor, n.Iris, n.Eyes, st, n.Events, n.Logger)
	n.RPCServer.Start(n.Config.RPCPort)
	n.Logger.Infof("RPC server running on :%d", n.Config.RPCPort)

	// ------------------------------------------------
	// 7. Explorer API (REST + live streams)
	// ------------------------------------------------
	n.ExplorerAPI = explorer.NewExplorerAPI(st, n.Iris, n.Eyes, n.Events)
	n.ExplorerAPI.Start(n.Config.ExplorerPort)
	n.Logger.Infof("Explorer API running on :%d", n.Config.ExplorerPort)

	n.Logger.Info("Node started successfully.")
	return nil
}

// deployIfNeeded runs the one-time deployment on a fresh datadir: seed
// the drop parameters, fix the vault + payout addresses, grant Admin,
// and fund the admin wallet.
func (n *Node) deployIfNeeded() error {
	if n.State.Config().Deployed {
		return nil
	}

	n.Logger.Info("Fresh datadir -> deploying contracts...")

	drop := params.DefaultDropParams()
	admin := common.HexToAddress(n.Wallets.Admin.Address)
	payout := common.HexToAddress(n.Wallets.Payout.Address)

	n.State.UpdateConfig(func(cfg *state.ContractConfig) {
		cfg.Cost = drop.Cost
		cfg.IrisCost = drop.IrisCost
		cfg.MaxSupply = drop.MaxSupply
		cfg.MaxMintAmountPerTx = drop.MaxMintAmountPerTx
		cfg.HiddenMetadataUri = drop.HiddenMetadataUri
		cfg.Vault = VaultAddress()
		cfg.Payout = payout
		cfg.Deployed = true
	})

	n.State.SetRole(access.RoleAdmin, admin, true)
	n.State.AddBalance(admin, params.AdminNativeAlloc)

	if err := n.State.Commit(); err != nil {
		return fmt.Errorf("deploy commit: %v", err)
	}

	n.Logger.Infof("Deployed. Admin=%s Payout=%s Vault=%s",
		admin.Hex(), payout.Hex(), VaultAddress().Hex())
	return nil
}

func (n *Node) Stop() {
	n.Logger.Info("Stopping Iris node...")

	if n.RPCServer != nil {
		n.RPCServer.Stop()
	}
	if n.ExplorerAPI != nil {
		n.ExplorerAPI.Stop()
	}
	if n.Executor != nil {
		n.Executor.Stop()
	}
	if n.State != nil {
		n.State.Close()
	}

	n.Logger.Info("Node stopped.")
}
