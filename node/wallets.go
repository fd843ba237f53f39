package node

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/crypto"
)

type WalletFile struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"` // encrypted hex
}

// ------------------------------------------------------------
// AES-GCM encryption helpers
// ------------------------------------------------------------

func encrypt(data []byte, pass string) (string, error) {
	key := crypto.Keccak256([]byte(pass))

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	rand.Read(nonce)

	ciphertext := gcm.Seal(nonce, nonce, data, nil)
	return hex.EncodeToString(ciphertext), nil
}

func decrypt(hexCipher string, pass string) ([]byte, error) {
	data, err := hex.DecodeString(hexCipher)
	if err != nil {
		return nil, err
	}

	key := crypto.Keccak256([]byte(pass))

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := data[:nonceSize]
	encrypted := data[nonceSize:]

	return gcm.Open(nil, nonce, encrypted, nil)
}

// Decrypt recovers the wallet's private key with the passphrase.
func (w *WalletFile) Decrypt(pass string) (*ecdsa.PrivateKey, error) {
	privBytes, err := decrypt(w.PrivateKey, pass)
	if err != nil {
		return nil, err
	}
	return crypto.ToECDSA(privBytes)
}

// ------------------------------------------------------------
// Create new wallet file
// ------------------------------------------------------------

func createWallet(path string, pass string) (*WalletFile, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	privBytes := crypto.FromECDSA(privateKey)
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	encrypted, err := encrypt(privBytes, pass)
	if err != nil {
		return nil, err
	}

	w := &WalletFile{
		Address:    address.Hex(),
		PrivateKey: encrypted,
	}

	data, _ := json.MarshalIndent(w, "", "  ")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, err
	}

	return w, nil
}

func loadOrCreateWallet(path, name, pass string) (*WalletFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("[WALLETS] %s wallet missing -> generating new one...\n", name)
		w, err := createWallet(path, pass)
		if err != nil {
			return nil, err
		}
		fmt.Printf("[WALLETS] %s Address: %s\n", name, w.Address)
		return w, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	w := &WalletFile{}
	if err := json.Unmarshal(data, w); err != nil {
		return nil, err
	}
	fmt.Printf("[WALLETS] Loaded %s wallet: %s\n", name, w.Address)
	return w, nil
}

// ------------------------------------------------------------
// Load or create Admin & Payout wallets
// ------------------------------------------------------------

type SystemWallets struct {
	Admin  *WalletFile
	Payout *WalletFile
}

func LoadSystemWallets(datadir string) (*SystemWallets, error) {
	walletDir := filepath.Join(datadir, "wallets")
	if err := os.MkdirAll(walletDir, 0o700); err != nil {
		return nil, err
	}

	admin, err := loadOrCreateWallet(filepath.Join(walletDir, "admin.json"), "Admin", "iris-admin")
	if err != nil {
		return nil, err
	}

	payout, err := loadOrCreateWallet(filepath.Join(walletDir, "payout.json"), "Payout", "iris-payout")
	if err != nil {
		return nil, err
	}

	return &SystemWallets{
		Admin:  admin,
		Payout: payout,
	}, nil
}
