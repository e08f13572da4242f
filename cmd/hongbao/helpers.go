package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"

	"github.com/hongbao-labs/hongbao/cmd/utils"
	"github.com/hongbao-labs/hongbao/hbclient"
	"github.com/hongbao-labs/hongbao/indexer"
	"github.com/hongbao-labs/hongbao/internal/prompt"
)

// dialClient connects to the configured RPC endpoint or bails out.
func dialClient(ctx *cli.Context, cfg Config) *hbclient.Client {
	client, err := hbclient.DialContext(ctx.Context, cfg.RPC)
	if err != nil {
		utils.Fatalf("Failed to connect to %s: %v", cfg.RPC, err)
	}
	return client
}

func dialIndexer(cfg Config) *indexer.Client {
	if cfg.Indexer == "" {
		utils.Fatalf("No indexer endpoint configured")
	}
	return indexer.New(cfg.Indexer)
}

// loadSigningKey decrypts the keyfile named by --keyfile with the
// passphrase from --passwordfile, prompting when no password file is given.
func loadSigningKey(ctx *cli.Context) *ecdsa.PrivateKey {
	keyfilepath := ctx.String(keyFileFlag.Name)
	if keyfilepath == "" {
		utils.Fatalf("No keyfile given, use --%s", keyFileFlag.Name)
	}
	keyjson, err := os.ReadFile(keyfilepath)
	if err != nil {
		utils.Fatalf("Failed to read the keyfile at '%s': %v", keyfilepath, err)
	}
	passphrase := getPassphrase(ctx)
	key, err := keystore.DecryptKey(keyjson, passphrase)
	if err != nil {
		utils.Fatalf("Error decrypting key: %v", err)
	}
	return key.PrivateKey
}

func getPassphrase(ctx *cli.Context) string {
	passphraseFile := ctx.String(passphraseFlag.Name)
	if passphraseFile != "" {
		content, err := os.ReadFile(passphraseFile)
		if err != nil {
			utils.Fatalf("Failed to read password file '%s': %v",
				passphraseFile, err)
		}
		return strings.TrimRight(string(content), "\r\n")
	}
	return utils.GetPassPhrase("", false)
}

// getMemoKey returns the shared memo key from --memo-key, prompting
// the user when the flag is empty.
func getMemoKey(ctx *cli.Context) string {
	if key := ctx.String(memoKeyFlag.Name); key != "" {
		return key
	}
	key, err := prompt.Stdin.PromptPassword("Memo key: ")
	if err != nil {
		utils.Fatalf("Failed to read memo key: %v", err)
	}
	if strings.TrimSpace(key) == "" {
		utils.Fatalf("Memo key must not be empty")
	}
	return key
}

func addressOf(key *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func receiptStatus(r *types.Receipt) string {
	if r.Status == types.ReceiptStatusSuccessful {
		return "success"
	}
	return "failed"
}

// mustPrintJSON prints the JSON encoding of the given object and
// exits the program with an error message when marshaling fails.
func mustPrintJSON(jsonObject interface{}) {
	str, err := json.MarshalIndent(jsonObject, "", "  ")
	if err != nil {
		utils.Fatalf("Failed to marshal JSON object: %v", err)
	}
	fmt.Println(string(str))
}
