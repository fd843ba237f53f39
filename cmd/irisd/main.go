package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Starloss/iris-chain/node"
)

func main() {
	fmt.Println("[IRISD] Starting Iris/Eyes contract host...")

	defaults := node.DefaultConfig()

	// CLI flags
	dataDir := flag.String("datadir", defaults.DataDir, "data directory")
	rpcPort := flag.Int("rpcport", defaults.RPCPort, "RPC port")
	explorerPort := flag.Int("explorerport", defaults.ExplorerPort, "Explorer port")
	logLevel := flag.String("loglevel", defaults.LogLevel, "Log level: info/debug")

	flag.Parse()

	cfg := &node.Config{
		DataDir:      *dataDir,
		RPCPort:      *rpcPort,
		ExplorerPort: *explorerPort,
		LogLevel:     *logLevel,
	}

	n := node.NewNode(cfg)
	if err := n.Start(); err != nil {
		fmt.Println("Error starting node:", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	n.Stop()
}
