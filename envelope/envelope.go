// Package envelope models the on-chain surface of the red-envelope gift
// contract: packing create/claim calls into transaction calldata and
// decoding the contract's events out of receipt logs.
//
// The contract itself is a collaborator; this package only speaks its ABI.
package envelope

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Envelope is a red envelope as announced by the EnvelopeCreated event.
type Envelope struct {
	ID      *big.Int       // contract-assigned envelope id
	Creator common.Address // funding account
	Total   *big.Int       // wei funded at creation
	Count   uint32         // number of claimable shares
	Message []byte         // sealed memo bytes as stored on chain
}

// Claim is a single share grab as announced by the EnvelopeClaimed event.
type Claim struct {
	EnvelopeID *big.Int
	Claimer    common.Address
	Amount     *big.Int // wei paid out for this share
}
