package envelope

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestPackCreate(t *testing.T) {
	memo := []byte{0xde, 0xad, 0xbe, 0xef}
	packed, err := PackCreate(5, memo)
	if err != nil {
		t.Fatalf("PackCreate: %v", err)
	}
	method := contractABI.Methods["create"]
	if !bytes.Equal(packed[:4], method.ID) {
		t.Fatalf("selector mismatch: have %x want %x", packed[:4], method.ID)
	}
	vals, err := method.Inputs.Unpack(packed[4:])
	if err != nil {
		t.Fatalf("unpack inputs: %v", err)
	}
	if got := vals[0].(uint32); got != 5 {
		t.Fatalf("count mismatch: have %d want 5", got)
	}
	if got := vals[1].([]byte); !bytes.Equal(got, memo) {
		t.Fatalf("memo mismatch: have %x want %x", got, memo)
	}
}

func TestPackCreateZeroCount(t *testing.T) {
	if _, err := PackCreate(0, nil); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("have %v want ErrInvalidCount", err)
	}
}

func TestPackClaim(t *testing.T) {
	packed, err := PackClaim(big.NewInt(77))
	if err != nil {
		t.Fatalf("PackClaim: %v", err)
	}
	method := contractABI.Methods["claim"]
	if !bytes.Equal(packed[:4], method.ID) {
		t.Fatalf("selector mismatch: have %x want %x", packed[:4], method.ID)
	}
	vals, err := method.Inputs.Unpack(packed[4:])
	if err != nil {
		t.Fatalf("unpack inputs: %v", err)
	}
	if got := vals[0].(*big.Int); got.Int64() != 77 {
		t.Fatalf("id mismatch: have %v want 77", got)
	}
	if _, err := PackClaim(nil); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("nil id: have %v want ErrInvalidID", err)
	}
	if _, err := PackClaim(big.NewInt(-1)); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("negative id: have %v want ErrInvalidID", err)
	}
}

func createdLog(t *testing.T, id int64, creator common.Address, total *big.Int, count uint32, memo []byte) *types.Log {
	t.Helper()
	data, err := contractABI.Events["EnvelopeCreated"].Inputs.NonIndexed().Pack(total, count, memo)
	if err != nil {
		t.Fatalf("pack event data: %v", err)
	}
	return &types.Log{
		Topics: []common.Hash{
			CreatedTopic,
			common.BigToHash(big.NewInt(id)),
			common.BytesToHash(creator.Bytes()),
		},
		Data: data,
	}
}

func claimedLog(t *testing.T, id int64, claimer common.Address, amount *big.Int) *types.Log {
	t.Helper()
	data, err := contractABI.Events["EnvelopeClaimed"].Inputs.NonIndexed().Pack(amount)
	if err != nil {
		t.Fatalf("pack event data: %v", err)
	}
	return &types.Log{
		Topics: []common.Hash{
			ClaimedTopic,
			common.BigToHash(big.NewInt(id)),
			common.BytesToHash(claimer.Bytes()),
		},
		Data: data,
	}
}

func TestParseCreatedRoundtrip(t *testing.T) {
	creator := common.HexToAddress("0x00000000000000000000000000000000deadbeef")
	memo := []byte{0x01, 0x02, 0x03}
	env, err := ParseCreated(createdLog(t, 42, creator, big.NewInt(1e15), 8, memo))
	if err != nil {
		t.Fatalf("ParseCreated: %v", err)
	}
	if env.ID.Int64() != 42 {
		t.Fatalf("id mismatch: %v", env.ID)
	}
	if env.Creator != creator {
		t.Fatalf("creator mismatch: %s", env.Creator.Hex())
	}
	if env.Total.Int64() != 1e15 {
		t.Fatalf("total mismatch: %v", env.Total)
	}
	if env.Count != 8 {
		t.Fatalf("count mismatch: %d", env.Count)
	}
	if !bytes.Equal(env.Message, memo) {
		t.Fatalf("message mismatch: %x", env.Message)
	}
}

func TestParseClaimedRoundtrip(t *testing.T) {
	claimer := common.HexToAddress("0x00000000000000000000000000000000cafebabe")
	cl, err := ParseClaimed(claimedLog(t, 42, claimer, big.NewInt(125)))
	if err != nil {
		t.Fatalf("ParseClaimed: %v", err)
	}
	if cl.EnvelopeID.Int64() != 42 || cl.Claimer != claimer || cl.Amount.Int64() != 125 {
		t.Fatalf("unexpected claim: %+v", cl)
	}
}

func TestParseRejectsForeignLogs(t *testing.T) {
	foreign := &types.Log{Topics: []common.Hash{common.HexToHash("0x01")}}
	if _, err := ParseCreated(foreign); !errors.Is(err, ErrNotEnvelopeLog) {
		t.Fatalf("ParseCreated: have %v want ErrNotEnvelopeLog", err)
	}
	if _, err := ParseClaimed(foreign); !errors.Is(err, ErrNotEnvelopeLog) {
		t.Fatalf("ParseClaimed: have %v want ErrNotEnvelopeLog", err)
	}
	// Created and claimed logs must not cross-parse.
	creator := common.HexToAddress("0x01")
	if _, err := ParseClaimed(createdLog(t, 1, creator, big.NewInt(1), 1, nil)); !errors.Is(err, ErrNotEnvelopeLog) {
		t.Fatalf("cross-parse: have %v want ErrNotEnvelopeLog", err)
	}
}

func TestCreatedFromReceipt(t *testing.T) {
	creator := common.HexToAddress("0x02")
	receipt := &types.Receipt{Logs: []*types.Log{
		{Topics: []common.Hash{common.HexToHash("0xff")}},
		createdLog(t, 9, creator, big.NewInt(500), 2, nil),
	}}
	env, err := CreatedFromReceipt(receipt)
	if err != nil {
		t.Fatalf("CreatedFromReceipt: %v", err)
	}
	if env.ID.Int64() != 9 {
		t.Fatalf("id mismatch: %v", env.ID)
	}
	if _, err := CreatedFromReceipt(&types.Receipt{}); !errors.Is(err, ErrNotEnvelopeLog) {
		t.Fatalf("empty receipt: have %v want ErrNotEnvelopeLog", err)
	}
}
