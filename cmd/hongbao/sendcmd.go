package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/hongbao-labs/hongbao/cmd/utils"
	"github.com/hongbao-labs/hongbao/hbclient"
	"github.com/hongbao-labs/hongbao/internal/flags"
	"github.com/hongbao-labs/hongbao/memoseal"
)

var (
	toFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "Recipient address",
		Category: flags.ChainCategory,
	}
	amountFlag = &cli.StringFlag{
		Name:     "amount",
		Usage:    "Amount to send in ether, e.g. 0.05",
		Category: flags.ChainCategory,
	}
	memoFlag = &cli.StringFlag{
		Name:     "memo",
		Usage:    "Plain-text memo sealed into the transaction data",
		Category: flags.MiscCategory,
	}
	gasLimitFlag = &cli.Uint64Flag{
		Name:     "gaslimit",
		Usage:    "Explicit gas limit, 0 estimates",
		Category: flags.ChainCategory,
	}
)

var sendCommand = &cli.Command{
	Action:    send,
	Name:      "send",
	Usage:     "Send ether with an optional sealed memo",
	ArgsUsage: " ",
	Flags: flags.Merge([]cli.Flag{
		keyFileFlag, passphraseFlag,
		toFlag, amountFlag, memoFlag, memoKeyFlag,
		gasLimitFlag, waitFlag, jsonFlag,
	}, []cli.Flag{
		configFileFlag, rpcFlag,
	}),
	Description: `Signs and submits a value transfer from the keyfile account. When
--memo is given the text is sealed with the shared memo key and embedded
as transaction calldata, readable only by key holders.`,
}

type sendOutput struct {
	Hash   string `json:"hash"`
	From   string `json:"from"`
	To     string `json:"to"`
	Value  string `json:"value"`
	Memo   string `json:"memo,omitempty"`
	Status string `json:"status,omitempty"`
	Block  uint64 `json:"block,omitempty"`
}

func send(ctx *cli.Context) error {
	to := parseAddressArg(ctx.String(toFlag.Name))
	amount, err := parseEther(ctx.String(amountFlag.Name))
	if err != nil {
		utils.Fatalf("Invalid amount: %v", err)
	}
	var data []byte
	var sealed string
	if memo := ctx.String(memoFlag.Name); memo != "" {
		sealed, err = memoseal.Encode(memo, getMemoKey(ctx))
		if err != nil {
			utils.Fatalf("Failed to seal memo: %v", err)
		}
		data, err = memoseal.DecodeHex(sealed)
		if err != nil {
			utils.Fatalf("Failed to seal memo: %v", err)
		}
	}
	key := loadSigningKey(ctx)

	cfg := makeConfig(ctx)
	client := dialClient(ctx, cfg)
	defer client.Close()

	opts := hbclient.TxOpts{
		Key:      key,
		Value:    amount,
		GasLimit: ctx.Uint64(gasLimitFlag.Name),
	}
	if opts.GasLimit == 0 {
		opts.GasLimit = cfg.GasLimit
	}
	tx, err := client.SendSealedMemo(ctx.Context, to, data, opts)
	if err != nil {
		utils.Fatalf("Failed to send transaction: %v", err)
	}

	out := sendOutput{
		Hash:  tx.Hash().Hex(),
		From:  addressOf(key),
		To:    to.Hex(),
		Value: amount.String(),
		Memo:  sealed,
	}
	if ctx.Bool(waitFlag.Name) {
		receipt, err := client.WaitMined(ctx.Context, tx)
		if err != nil {
			utils.Fatalf("Failed waiting for transaction: %v", err)
		}
		out.Block = receipt.BlockNumber.Uint64()
		out.Status = receiptStatus(receipt)
	}
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(out)
		return nil
	}
	fmt.Println("Transaction:", out.Hash)
	if out.Memo != "" {
		fmt.Println("Sealed memo:", out.Memo)
	}
	if out.Status != "" {
		fmt.Println("Block:      ", out.Block)
		fmt.Println("Status:     ", colorStatus(out.Status))
	}
	return nil
}
