package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/hongbao-labs/hongbao/internal/flags"
	"github.com/hongbao-labs/hongbao/params"
)

const clientIdentifier = "hongbao"

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""
var gitDate = ""

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	rpcFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "JSON-RPC endpoint of the Sepolia node",
		Category: flags.ChainCategory,
	}
	indexerFlag = &cli.StringFlag{
		Name:     "indexer",
		Usage:    "GraphQL endpoint of the envelope subgraph",
		Category: flags.IndexerCategory,
	}
	contractFlag = &cli.StringFlag{
		Name:     "contract",
		Usage:    "Address of the envelope contract",
		Category: flags.EnvelopeCategory,
	}
	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    3,
		Category: flags.LoggingCategory,
	}

	keyFileFlag = &cli.StringFlag{
		Name:     "keyfile",
		Usage:    "Keyfile holding the sending account",
		Category: flags.AccountCategory,
	}
	passphraseFlag = &cli.StringFlag{
		Name:     "passwordfile",
		Usage:    "File that contains the password for the keyfile",
		Category: flags.AccountCategory,
	}
	memoKeyFlag = &cli.StringFlag{
		Name:     "memo-key",
		Usage:    "Shared key used to seal and unseal memos",
		Category: flags.MiscCategory,
	}
	jsonFlag = &cli.BoolFlag{
		Name:     "json",
		Usage:    "Output JSON instead of human-readable format",
		Category: flags.MiscCategory,
	}
	waitFlag = &cli.BoolFlag{
		Name:     "wait",
		Usage:    "Wait until the transaction is mined",
		Category: flags.ChainCategory,
	}
)

var app = flags.NewApp(gitCommit, gitDate, "the red-envelope command line interface")

func init() {
	app.Flags = []cli.Flag{
		configFileFlag,
		rpcFlag,
		indexerFlag,
		contractFlag,
		verbosityFlag,
	}
	app.Commands = []*cli.Command{
		statusCommand,
		balanceCommand,
		blockCommand,
		txCommand,
		sendCommand,
		envelopeCommand,
		dumpConfigCommand,
		versionCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		setupLogging(ctx)
		return nil
	}
}

func setupLogging(ctx *cli.Context) {
	usecolor := isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	verbosity := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, verbosity, usecolor)
	log.SetDefault(log.NewLogger(handler))
}

var versionCommand = &cli.Command{
	Action:    version,
	Name:      "version",
	Usage:     "Print version numbers",
	ArgsUsage: " ",
	Description: `
The output of this command is supposed to be machine-readable.
`,
}

func version(ctx *cli.Context) error {
	fmt.Println(clientIdentifier)
	fmt.Println("Version:", params.VersionWithMeta)
	if gitCommit != "" {
		fmt.Println("Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Println("Git Commit Date:", gitDate)
	}
	fmt.Println("Architecture:", runtime.GOARCH)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
