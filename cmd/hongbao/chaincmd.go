package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/hongbao-labs/hongbao/cmd/utils"
	"github.com/hongbao-labs/hongbao/internal/flags"
	"github.com/hongbao-labs/hongbao/memoseal"
	"github.com/hongbao-labs/hongbao/params"
)

var statusCommand = &cli.Command{
	Action:    status,
	Name:      "status",
	Usage:     "Show chain endpoint status",
	ArgsUsage: " ",
	Flags: flags.Merge([]cli.Flag{jsonFlag}, []cli.Flag{
		configFileFlag, rpcFlag, contractFlag,
	}),
	Description: `Connects to the configured RPC endpoint and reports the chain id,
head block and current fee suggestion.`,
}

var balanceCommand = &cli.Command{
	Action:    balance,
	Name:      "balance",
	Usage:     "Show balance and nonce of an account",
	ArgsUsage: "<address>",
	Flags: flags.Merge([]cli.Flag{jsonFlag}, []cli.Flag{
		configFileFlag, rpcFlag,
	}),
}

var blockCommand = &cli.Command{
	Action:    block,
	Name:      "block",
	Usage:     "Show a block header",
	ArgsUsage: "[ <number> ]",
	Flags: flags.Merge([]cli.Flag{jsonFlag}, []cli.Flag{
		configFileFlag, rpcFlag,
	}),
	Description: `Prints the header of the given block number, or of the latest
block when no number is given.`,
}

var txCommand = &cli.Command{
	Action:    transaction,
	Name:      "tx",
	Usage:     "Show a transaction and its receipt",
	ArgsUsage: "<hash>",
	Flags: flags.Merge([]cli.Flag{jsonFlag, memoKeyFlag}, []cli.Flag{
		configFileFlag, rpcFlag,
	}),
	Description: `Prints the transaction with the given hash together with its receipt
status. When --memo-key is given, transaction calldata is unsealed and
shown as memo text.`,
}

type statusOutput struct {
	ChainID  string `json:"chainId"`
	Chain    string `json:"chain"`
	Block    uint64 `json:"block"`
	TipCap   string `json:"tipCap,omitempty"`
	FeeCap   string `json:"feeCap,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
}

func status(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	client := dialClient(ctx, cfg)
	defer client.Close()

	chainID, err := client.ChainID(ctx.Context)
	if err != nil {
		utils.Fatalf("Failed to fetch chain id: %v", err)
	}
	head, err := client.BlockNumber(ctx.Context)
	if err != nil {
		utils.Fatalf("Failed to fetch block number: %v", err)
	}
	fees, err := client.SuggestFees(ctx.Context)
	if err != nil {
		utils.Fatalf("Failed to fetch fee suggestion: %v", err)
	}

	out := statusOutput{
		ChainID: chainID.String(),
		Chain:   params.ChainName(chainID),
		Block:   head,
	}
	if fees.GasPrice != nil {
		out.GasPrice = fees.GasPrice.String()
	} else {
		out.TipCap = fees.TipCap.String()
		out.FeeCap = fees.FeeCap.String()
	}
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(out)
		return nil
	}
	fmt.Println("Chain:     ", out.Chain)
	fmt.Println("Chain id:  ", out.ChainID)
	fmt.Println("Head block:", out.Block)
	if out.GasPrice != "" {
		fmt.Println("Gas price: ", out.GasPrice, "wei")
	} else {
		fmt.Println("Tip cap:   ", out.TipCap, "wei")
		fmt.Println("Fee cap:   ", out.FeeCap, "wei")
	}
	return nil
}

type balanceOutput struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Ether   string `json:"ether"`
	Nonce   uint64 `json:"nonce"`
	Block   uint64 `json:"block"`
}

func balance(ctx *cli.Context) error {
	addr := parseAddressArg(ctx.Args().First())
	cfg := makeConfig(ctx)
	client := dialClient(ctx, cfg)
	defer client.Close()

	overview, err := client.AccountOverview(ctx.Context, addr)
	if err != nil {
		utils.Fatalf("Failed to fetch account: %v", err)
	}
	out := balanceOutput{
		Address: overview.Address.Hex(),
		Balance: overview.Balance.String(),
		Ether:   formatEther(overview.Balance),
		Nonce:   overview.Nonce,
		Block:   overview.Block,
	}
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(out)
		return nil
	}
	fmt.Println("Address:", out.Address)
	fmt.Println("Balance:", out.Ether, "ETH", "("+out.Balance+" wei)")
	fmt.Println("Nonce:  ", out.Nonce)
	fmt.Println("Block:  ", out.Block)
	return nil
}

func block(ctx *cli.Context) error {
	var number *big.Int
	if arg := ctx.Args().First(); arg != "" {
		n, ok := new(big.Int).SetString(arg, 10)
		if !ok || n.Sign() < 0 {
			utils.Fatalf("Invalid block number %q", arg)
		}
		number = n
	}
	cfg := makeConfig(ctx)
	client := dialClient(ctx, cfg)
	defer client.Close()

	header, err := client.HeaderByNumber(ctx.Context, number)
	if err != nil {
		utils.Fatalf("Failed to fetch header: %v", err)
	}
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(header)
		return nil
	}
	fmt.Println("Number:    ", header.Number)
	fmt.Println("Hash:      ", header.Hash().Hex())
	fmt.Println("Parent:    ", header.ParentHash.Hex())
	fmt.Println("Time:      ", header.Time)
	fmt.Println("Gas used:  ", header.GasUsed)
	fmt.Println("Gas limit: ", header.GasLimit)
	if header.BaseFee != nil {
		fmt.Println("Base fee:  ", header.BaseFee, "wei")
	}
	return nil
}

type txOutput struct {
	Hash    string `json:"hash"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Value   string `json:"value"`
	Data    string `json:"data,omitempty"`
	Memo    string `json:"memo,omitempty"`
	Pending bool   `json:"pending"`
	Status  string `json:"status,omitempty"`
	Block   uint64 `json:"block,omitempty"`
	GasUsed uint64 `json:"gasUsed,omitempty"`
}

func transaction(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if len(common.FromHex(arg)) != common.HashLength {
		utils.Fatalf("Invalid transaction hash %q", arg)
	}
	hash := common.HexToHash(arg)
	cfg := makeConfig(ctx)
	client := dialClient(ctx, cfg)
	defer client.Close()

	tx, pending, err := client.TransactionByHash(ctx.Context, hash)
	if err != nil {
		utils.Fatalf("Failed to fetch transaction: %v", err)
	}
	out := txOutput{
		Hash:    tx.Hash().Hex(),
		Value:   tx.Value().String(),
		Pending: pending,
	}
	if to := tx.To(); to != nil {
		out.To = to.Hex()
	}
	if sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx); err == nil {
		out.From = sender.Hex()
	}
	if data := tx.Data(); len(data) > 0 {
		out.Data = hexutil.Encode(data)
		if ctx.IsSet(memoKeyFlag.Name) {
			memo, err := memoseal.Decode(out.Data, getMemoKey(ctx))
			if err != nil {
				utils.Fatalf("Failed to unseal memo: %v", err)
			}
			out.Memo = memo
		}
	}
	if !pending {
		receipt, err := client.TransactionReceipt(ctx.Context, hash)
		if err != nil {
			utils.Fatalf("Failed to fetch receipt: %v", err)
		}
		out.Block = receipt.BlockNumber.Uint64()
		out.GasUsed = receipt.GasUsed
		if receipt.Status == types.ReceiptStatusSuccessful {
			out.Status = "success"
		} else {
			out.Status = "failed"
		}
	}
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(out)
		return nil
	}
	fmt.Println("Hash:   ", out.Hash)
	if out.From != "" {
		fmt.Println("From:   ", out.From)
	}
	if out.To != "" {
		fmt.Println("To:     ", out.To)
	}
	fmt.Println("Value:  ", formatEther(tx.Value()), "ETH")
	if out.Data != "" {
		fmt.Println("Data:   ", out.Data)
	}
	if out.Memo != "" {
		fmt.Println("Memo:   ", out.Memo)
	}
	if pending {
		fmt.Println("Status: ", "pending")
	} else {
		fmt.Println("Block:  ", out.Block)
		fmt.Println("Gas used:", out.GasUsed)
		fmt.Println("Status: ", colorStatus(out.Status))
	}
	return nil
}

func colorStatus(status string) string {
	if status == "success" {
		return color.GreenString(status)
	}
	return color.RedString(status)
}

func parseAddressArg(arg string) common.Address {
	if !common.IsHexAddress(arg) {
		utils.Fatalf("Invalid address %q", arg)
	}
	return common.HexToAddress(arg)
}
