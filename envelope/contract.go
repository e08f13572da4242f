package envelope

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// contractJSON is the ABI of the red-envelope gift contract.
const contractJSON = `[
	{"type":"function","name":"create","stateMutability":"payable","inputs":[{"name":"count","type":"uint32"},{"name":"message","type":"bytes"}],"outputs":[{"name":"id","type":"uint256"}]},
	{"type":"function","name":"claim","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"}],"outputs":[]},
	{"type":"event","name":"EnvelopeCreated","anonymous":false,"inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"creator","type":"address","indexed":true},{"name":"total","type":"uint256","indexed":false},{"name":"count","type":"uint32","indexed":false},{"name":"message","type":"bytes","indexed":false}]},
	{"type":"event","name":"EnvelopeClaimed","anonymous":false,"inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"claimer","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]}
]`

var (
	contractABI abi.ABI

	// CreatedTopic is the topic hash of the EnvelopeCreated event.
	CreatedTopic common.Hash

	// ClaimedTopic is the topic hash of the EnvelopeClaimed event.
	ClaimedTopic common.Hash
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(contractJSON))
	if err != nil {
		panic(fmt.Sprintf("envelope: bad embedded ABI: %v", err))
	}
	contractABI = parsed
	CreatedTopic = contractABI.Events["EnvelopeCreated"].ID
	ClaimedTopic = contractABI.Events["EnvelopeClaimed"].ID
}

// PackCreate encodes calldata for create(count, sealedMemo). The funded
// amount travels as the transaction value, not as calldata.
func PackCreate(count uint32, sealedMemo []byte) ([]byte, error) {
	if count == 0 {
		return nil, ErrInvalidCount
	}
	return contractABI.Pack("create", count, sealedMemo)
}

// PackClaim encodes calldata for claim(id).
func PackClaim(id *big.Int) ([]byte, error) {
	if id == nil || id.Sign() < 0 {
		return nil, ErrInvalidID
	}
	return contractABI.Pack("claim", id)
}

// ParseCreated decodes an EnvelopeCreated event from a receipt log.
func ParseCreated(lg *types.Log) (*Envelope, error) {
	if len(lg.Topics) != 3 || lg.Topics[0] != CreatedTopic {
		return nil, ErrNotEnvelopeLog
	}
	var data struct {
		Total   *big.Int
		Count   uint32
		Message []byte
	}
	if err := contractABI.UnpackIntoInterface(&data, "EnvelopeCreated", lg.Data); err != nil {
		return nil, fmt.Errorf("envelope: decode EnvelopeCreated data: %w", err)
	}
	return &Envelope{
		ID:      new(big.Int).SetBytes(lg.Topics[1].Bytes()),
		Creator: common.BytesToAddress(lg.Topics[2].Bytes()),
		Total:   data.Total,
		Count:   data.Count,
		Message: data.Message,
	}, nil
}

// ParseClaimed decodes an EnvelopeClaimed event from a receipt log.
func ParseClaimed(lg *types.Log) (*Claim, error) {
	if len(lg.Topics) != 3 || lg.Topics[0] != ClaimedTopic {
		return nil, ErrNotEnvelopeLog
	}
	var data struct {
		Amount *big.Int
	}
	if err := contractABI.UnpackIntoInterface(&data, "EnvelopeClaimed", lg.Data); err != nil {
		return nil, fmt.Errorf("envelope: decode EnvelopeClaimed data: %w", err)
	}
	return &Claim{
		EnvelopeID: new(big.Int).SetBytes(lg.Topics[1].Bytes()),
		Claimer:    common.BytesToAddress(lg.Topics[2].Bytes()),
		Amount:     data.Amount,
	}, nil
}

// CreatedFromReceipt extracts the EnvelopeCreated event emitted by a create
// transaction, skipping unrelated logs.
func CreatedFromReceipt(receipt *types.Receipt) (*Envelope, error) {
	for _, lg := range receipt.Logs {
		if env, err := ParseCreated(lg); err == nil {
			return env, nil
		}
	}
	return nil, ErrNotEnvelopeLog
}

// ClaimedFromReceipt extracts the EnvelopeClaimed event emitted by a claim
// transaction, skipping unrelated logs.
func ClaimedFromReceipt(receipt *types.Receipt) (*Claim, error) {
	for _, lg := range receipt.Logs {
		if cl, err := ParseClaimed(lg); err == nil {
			return cl, nil
		}
	}
	return nil, ErrNotEnvelopeLog
}

// EventTopics returns the topic filter matching both envelope events,
// suitable for a log filter query against the contract address.
func EventTopics() [][]common.Hash {
	return [][]common.Hash{{CreatedTopic, ClaimedTopic}}
}
