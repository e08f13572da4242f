package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hongbao-labs/hongbao/cmd/utils"
	"github.com/hongbao-labs/hongbao/internal/prompt"
	"github.com/hongbao-labs/hongbao/memoseal"
)

type outputSeal struct {
	Sealed string `json:"sealed"`
}

type outputUnseal struct {
	Text string `json:"text"`
}

var memoKeyFlag = &cli.StringFlag{
	Name:  "memo-key",
	Usage: "shared key used to seal and unseal memos (prompted when empty)",
}

var commandSeal = &cli.Command{
	Name:      "seal",
	Usage:     "seal a memo into hex form",
	ArgsUsage: "<text>",
	Description: `
Seal a plain-text memo with a shared key, producing the 0x-prefixed hex
string carried in transaction data or envelope messages.

Anyone holding the same key can recover the text with the unseal command.`,
	Flags: []cli.Flag{
		jsonFlag,
		memoKeyFlag,
	},
	Action: func(ctx *cli.Context) error {
		text := ctx.Args().First()
		if text == "" {
			utils.Fatalf("No memo text given")
		}
		sealed, err := memoseal.Encode(text, getMemoKey(ctx))
		if err != nil {
			utils.Fatalf("Failed to seal memo: %v", err)
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(outputSeal{Sealed: sealed})
		} else {
			fmt.Println("Sealed:", sealed)
		}
		return nil
	},
}

var commandUnseal = &cli.Command{
	Name:      "unseal",
	Usage:     "recover a memo from its sealed hex form",
	ArgsUsage: "<hexdata>",
	Description: `
Unseal a 0x-prefixed hex string back into plain text using the shared key.

A wrong key does not fail; it yields scrambled text.`,
	Flags: []cli.Flag{
		jsonFlag,
		memoKeyFlag,
	},
	Action: func(ctx *cli.Context) error {
		input := ctx.Args().First()
		if input == "" {
			utils.Fatalf("No sealed memo given")
		}
		text, err := memoseal.Decode(input, getMemoKey(ctx))
		if err != nil {
			utils.Fatalf("Failed to unseal memo: %v", err)
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(outputUnseal{Text: text})
		} else {
			fmt.Println("Text:", text)
		}
		return nil
	},
}

// getMemoKey returns the memo key from --memo-key, prompting the
// user when the flag is empty.
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
