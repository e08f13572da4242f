package main

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/hongbao-labs/hongbao/cmd/utils"
	"github.com/hongbao-labs/hongbao/envelope"
	"github.com/hongbao-labs/hongbao/hbclient"
	"github.com/hongbao-labs/hongbao/indexer"
	"github.com/hongbao-labs/hongbao/internal/flags"
	"github.com/hongbao-labs/hongbao/memoseal"
)

var (
	countFlag = &cli.UintFlag{
		Name:     "count",
		Usage:    "Number of shares the envelope splits into",
		Value:    1,
		Category: flags.EnvelopeCategory,
	}
	totalFlag = &cli.StringFlag{
		Name:     "total",
		Usage:    "Total ether funded into the envelope, e.g. 0.1",
		Category: flags.EnvelopeCategory,
	}
	idFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "Envelope id",
		Category: flags.EnvelopeCategory,
	}
	creatorFlag = &cli.StringFlag{
		Name:     "creator",
		Usage:    "Only list envelopes funded by this address",
		Category: flags.IndexerCategory,
	}
	limitFlag = &cli.IntFlag{
		Name:     "limit",
		Usage:    "Maximum number of records to list",
		Value:    20,
		Category: flags.IndexerCategory,
	}
	fromBlockFlag = &cli.Int64Flag{
		Name:     "from",
		Usage:    "First block of the scanned range",
		Category: flags.ChainCategory,
	}
	toBlockFlag = &cli.Int64Flag{
		Name:     "to",
		Usage:    "Last block of the scanned range, 0 means latest",
		Category: flags.ChainCategory,
	}
)

var envelopeCommand = &cli.Command{
	Name:  "envelope",
	Usage: "Create, claim and browse red envelopes",
	Subcommands: []*cli.Command{
		{
			Action:    envelopeCreate,
			Name:      "create",
			Usage:     "Fund a new red envelope",
			ArgsUsage: " ",
			Flags: flags.Merge([]cli.Flag{
				keyFileFlag, passphraseFlag,
				countFlag, totalFlag, memoFlag, memoKeyFlag,
				waitFlag, jsonFlag,
			}, []cli.Flag{
				configFileFlag, rpcFlag, contractFlag,
			}),
			Description: `Funds a new envelope holding --total ether split into --count shares.
The --memo text is sealed with the shared memo key and stored with the
envelope; claimers holding the key can read it.`,
		},
		{
			Action:    envelopeClaim,
			Name:      "claim",
			Usage:     "Claim one share of an envelope",
			ArgsUsage: " ",
			Flags: flags.Merge([]cli.Flag{
				keyFileFlag, passphraseFlag, idFlag,
				waitFlag, jsonFlag,
			}, []cli.Flag{
				configFileFlag, rpcFlag, contractFlag,
			}),
		},
		{
			Action:    envelopeList,
			Name:      "list",
			Usage:     "List envelopes recorded by the index",
			ArgsUsage: " ",
			Flags: flags.Merge([]cli.Flag{
				creatorFlag, limitFlag, memoKeyFlag, jsonFlag,
			}, []cli.Flag{
				configFileFlag, indexerFlag,
			}),
			Description: `Lists recent envelopes, or the envelopes funded by --creator. When
--memo-key is given the sealed messages are unsealed in the output.`,
		},
		{
			Action:    envelopeClaims,
			Name:      "claims",
			Usage:     "List the claims of an envelope",
			ArgsUsage: "<envelope-id>",
			Flags: flags.Merge([]cli.Flag{
				limitFlag, jsonFlag,
			}, []cli.Flag{
				configFileFlag, indexerFlag,
			}),
		},
		{
			Action:    envelopeLogs,
			Name:      "logs",
			Usage:     "Scan the chain for envelope events",
			ArgsUsage: " ",
			Flags: flags.Merge([]cli.Flag{
				fromBlockFlag, toBlockFlag, jsonFlag,
			}, []cli.Flag{
				configFileFlag, rpcFlag, contractFlag,
			}),
			Description: `Reads EnvelopeCreated and EnvelopeClaimed events straight from the
node, bypassing the index. Useful when the index lags the chain.`,
		},
	},
}

type envelopeTxOutput struct {
	Hash   string `json:"hash"`
	From   string `json:"from"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Block  uint64 `json:"block,omitempty"`
}

func envelopeCreate(ctx *cli.Context) error {
	count := ctx.Uint(countFlag.Name)
	if count == 0 || count > 1024 {
		utils.Fatalf("Invalid share count %d", count)
	}
	total, err := parseEther(ctx.String(totalFlag.Name))
	if err != nil {
		utils.Fatalf("Invalid total: %v", err)
	}
	if total.Sign() <= 0 {
		utils.Fatalf("Envelope total must be positive")
	}
	memo := ctx.String(memoFlag.Name)
	if memo == "" {
		utils.Fatalf("No memo given, use --%s", memoFlag.Name)
	}
	sealed, err := memoseal.Encode(memo, getMemoKey(ctx))
	if err != nil {
		utils.Fatalf("Failed to seal memo: %v", err)
	}
	sealedBytes, err := memoseal.DecodeHex(sealed)
	if err != nil {
		utils.Fatalf("Failed to seal memo: %v", err)
	}
	key := loadSigningKey(ctx)

	cfg := makeConfig(ctx)
	client := dialClient(ctx, cfg)
	defer client.Close()

	tx, err := client.CreateEnvelope(ctx.Context, cfg.ContractAddress(), uint32(count), sealedBytes, total, hbclient.TxOpts{Key: key})
	if err != nil {
		utils.Fatalf("Failed to create envelope: %v", err)
	}
	out := envelopeTxOutput{Hash: tx.Hash().Hex(), From: addressOf(key)}
	if ctx.Bool(waitFlag.Name) {
		receipt, err := client.WaitMined(ctx.Context, tx)
		if err != nil {
			utils.Fatalf("Failed waiting for transaction: %v", err)
		}
		out.Block = receipt.BlockNumber.Uint64()
		out.Status = receiptStatus(receipt)
		if created, err := envelope.CreatedFromReceipt(receipt); err == nil {
			out.ID = created.ID.String()
		}
	}
	printEnvelopeTx(ctx, out)
	return nil
}

func envelopeClaim(ctx *cli.Context) error {
	id, ok := new(big.Int).SetString(ctx.String(idFlag.Name), 10)
	if !ok || id.Sign() < 0 {
		utils.Fatalf("Invalid envelope id %q", ctx.String(idFlag.Name))
	}
	key := loadSigningKey(ctx)

	cfg := makeConfig(ctx)
	client := dialClient(ctx, cfg)
	defer client.Close()

	tx, err := client.ClaimEnvelope(ctx.Context, cfg.ContractAddress(), id, hbclient.TxOpts{Key: key})
	if err != nil {
		utils.Fatalf("Failed to claim envelope: %v", err)
	}
	out := envelopeTxOutput{Hash: tx.Hash().Hex(), From: addressOf(key), ID: id.String()}
	if ctx.Bool(waitFlag.Name) {
		receipt, err := client.WaitMined(ctx.Context, tx)
		if err != nil {
			utils.Fatalf("Failed waiting for transaction: %v", err)
		}
		out.Block = receipt.BlockNumber.Uint64()
		out.Status = receiptStatus(receipt)
	}
	printEnvelopeTx(ctx, out)
	return nil
}

func printEnvelopeTx(ctx *cli.Context, out envelopeTxOutput) {
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(out)
		return
	}
	fmt.Println("Transaction:", out.Hash)
	if out.ID != "" {
		fmt.Println("Envelope id:", out.ID)
	}
	if out.Status != "" {
		fmt.Println("Block:      ", out.Block)
		fmt.Println("Status:     ", colorStatus(out.Status))
	}
}

func envelopeList(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	idx := dialIndexer(cfg)

	var (
		records []*indexer.Envelope
		err     error
		limit   = ctx.Int(limitFlag.Name)
	)
	if creator := ctx.String(creatorFlag.Name); creator != "" {
		records, err = idx.EnvelopesByCreator(ctx.Context, parseAddressArg(creator), limit)
	} else {
		records, err = idx.RecentEnvelopes(ctx.Context, limit)
	}
	if err != nil {
		utils.Fatalf("Failed to query index: %v", err)
	}

	memoKey := ctx.String(memoKeyFlag.Name)
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(records)
		return nil
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Creator", "Total (ETH)", "Claimed", "Memo", "Created"})
	for _, rec := range records {
		memo := rec.Message
		if memoKey != "" {
			if text, err := memoseal.Decode(rec.Message, memoKey); err == nil {
				memo = text
			}
		}
		claimed := fmt.Sprintf("%d/%d", rec.Claimed, rec.Count)
		if rec.Exhausted() {
			claimed = color.RedString(claimed)
		} else {
			claimed = color.GreenString(claimed)
		}
		table.Append([]string{
			rec.ID,
			rec.Creator.Hex(),
			formatEther(rec.Total),
			claimed,
			memo,
			time.Unix(int64(rec.CreatedAt), 0).UTC().Format(time.RFC3339),
		})
	}
	table.Render()
	return nil
}

func envelopeClaims(ctx *cli.Context) error {
	id := ctx.Args().First()
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		utils.Fatalf("Invalid envelope id %q", id)
	}
	cfg := makeConfig(ctx)
	idx := dialIndexer(cfg)

	records, err := idx.ClaimsByEnvelope(ctx.Context, id, ctx.Int(limitFlag.Name))
	if err != nil {
		utils.Fatalf("Failed to query index: %v", err)
	}
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(records)
		return nil
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Claimer", "Amount (ETH)", "Claimed", "Tx"})
	for _, rec := range records {
		table.Append([]string{
			rec.Claimer.Hex(),
			formatEther(rec.Amount),
			time.Unix(int64(rec.ClaimedAt), 0).UTC().Format(time.RFC3339),
			rec.TxHash.Hex(),
		})
	}
	table.Render()
	return nil
}

type logRecord struct {
	Event  string `json:"event"`
	ID     string `json:"id"`
	Who    string `json:"who"`
	Amount string `json:"amount,omitempty"`
	Count  uint32 `json:"count,omitempty"`
	Block  uint64 `json:"block"`
	TxHash string `json:"txHash"`
}

func envelopeLogs(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	client := dialClient(ctx, cfg)
	defer client.Close()

	var fromBlock, toBlock *big.Int
	if from := ctx.Int64(fromBlockFlag.Name); from > 0 {
		fromBlock = big.NewInt(from)
	}
	if to := ctx.Int64(toBlockFlag.Name); to > 0 {
		toBlock = big.NewInt(to)
	}
	logs, err := client.EnvelopeLogs(ctx.Context, cfg.ContractAddress(), fromBlock, toBlock)
	if err != nil {
		utils.Fatalf("Failed to fetch logs: %v", err)
	}
	records := make([]logRecord, 0, len(logs))
	for i := range logs {
		if rec, ok := convertLog(&logs[i]); ok {
			records = append(records, rec)
		}
	}
	if ctx.Bool(jsonFlag.Name) {
		mustPrintJSON(records)
		return nil
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Event", "ID", "Who", "Amount (ETH)", "Count", "Block"})
	for _, rec := range records {
		count := ""
		if rec.Count > 0 {
			count = strconv.FormatUint(uint64(rec.Count), 10)
		}
		table.Append([]string{rec.Event, rec.ID, rec.Who, rec.Amount, count, strconv.FormatUint(rec.Block, 10)})
	}
	table.Render()
	return nil
}

func convertLog(lg *types.Log) (logRecord, bool) {
	if created, err := envelope.ParseCreated(lg); err == nil {
		return logRecord{
			Event:  "created",
			ID:     created.ID.String(),
			Who:    created.Creator.Hex(),
			Amount: formatEther(created.Total),
			Count:  created.Count,
			Block:  lg.BlockNumber,
			TxHash: lg.TxHash.Hex(),
		}, true
	}
	if claimed, err := envelope.ParseClaimed(lg); err == nil {
		return logRecord{
			Event:  "claimed",
			ID:     claimed.EnvelopeID.String(),
			Who:    claimed.Claimer.Hex(),
			Amount: formatEther(claimed.Amount),
			Block:  lg.BlockNumber,
			TxHash: lg.TxHash.Hex(),
		}, true
	}
	return logRecord{}, false
}
