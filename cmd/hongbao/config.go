package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/hongbao-labs/hongbao/cmd/utils"
	"github.com/hongbao-labs/hongbao/params"
)

// Config collects the tunables of the tool. Every field can be
// overridden from the command line.
type Config struct {
	RPC      string // JSON-RPC endpoint of the chain node
	Indexer  string // GraphQL endpoint of the envelope subgraph
	Contract string // envelope contract address
	GasLimit uint64 // explicit gas limit, 0 means estimate
}

func defaultConfig() Config {
	return Config{
		RPC:      params.DefaultRPCURL,
		Indexer:  params.DefaultIndexerURL,
		Contract: params.DefaultEnvelopeContract.Hex(),
	}
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		if unicode.IsLower(rune(field[0])) {
			return nil
		}
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func loadConfigFile(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(f).Decode(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

// makeConfig assembles the effective configuration from defaults, the
// optional config file and command line overrides, in that order.
func makeConfig(ctx *cli.Context) Config {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			utils.Fatalf("Failed to load config file: %v", err)
		}
	}
	if ctx.IsSet(rpcFlag.Name) {
		cfg.RPC = ctx.String(rpcFlag.Name)
	}
	if ctx.IsSet(indexerFlag.Name) {
		cfg.Indexer = ctx.String(indexerFlag.Name)
	}
	if ctx.IsSet(contractFlag.Name) {
		cfg.Contract = ctx.String(contractFlag.Name)
	}
	if err := validateConfig(&cfg); err != nil {
		utils.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func validateConfig(cfg *Config) error {
	if cfg.RPC == "" {
		return errors.New("rpc endpoint must not be empty")
	}
	if !common.IsHexAddress(cfg.Contract) {
		return fmt.Errorf("invalid contract address %q", cfg.Contract)
	}
	return nil
}

// ContractAddress returns the parsed envelope contract address.
func (c *Config) ContractAddress() common.Address {
	return common.HexToAddress(c.Contract)
}

var dumpConfigCommand = &cli.Command{
	Action:    dumpConfig,
	Name:      "dumpconfig",
	Usage:     "Export configuration values in TOML format",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		configFileFlag,
		rpcFlag,
		indexerFlag,
		contractFlag,
	},
	Description: `The dumpconfig command exports the effective configuration, including
any defaults, in TOML format to stdout.`,
}

func dumpConfig(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	return nil
}
