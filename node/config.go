package node

import (
	"os"
)

type Config struct {
	DataDir      string
	RPCPort      int
	ExplorerPort int
	LogLevel     string
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir:      home + "/.iris-chain",
		RPCPort:      8545,
		ExplorerPort: 9500,
		LogLevel:     "info",
	}
}
