// Package params contains chain identifiers and demo service defaults.
package params

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Chain ids of the test networks the demo commands know by name.
var (
	// SepoliaChainID is the chain id of the Sepolia proof-of-stake testnet.
	SepoliaChainID = big.NewInt(11_155_111)

	// HoleskyChainID is the chain id of the Holesky staking testnet.
	HoleskyChainID = big.NewInt(17_000)
)

// ChainName returns a human-readable name for known chain ids and the
// decimal id string for everything else.
func ChainName(id *big.Int) string {
	switch {
	case id == nil:
		return "unknown"
	case id.Cmp(SepoliaChainID) == 0:
		return "sepolia"
	case id.Cmp(HoleskyChainID) == 0:
		return "holesky"
	default:
		return id.String()
	}
}

// Default endpoints used when neither the config file nor flags override them.
const (
	// DefaultRPCURL is a public Sepolia JSON-RPC endpoint.
	DefaultRPCURL = "https://rpc.sepolia.org"

	// DefaultIndexerURL is the hosted GraphQL index of red-envelope activity.
	DefaultIndexerURL = "https://api.studio.thegraph.com/query/hongbao/hongbao-sepolia/version/latest"
)

// DefaultEnvelopeContract is the red-envelope gift contract deployed on
// Sepolia. The create/claim demo commands target it unless overridden.
var DefaultEnvelopeContract = common.HexToAddress("0x3aF7b9c48bB10cf8C2a24e9E70bC03E69A7086Be")

// Gas ceilings for demo transactions. Estimation is preferred; these bound
// it so a misbehaving node cannot make the demo burn through a test balance.
const (
	// TxGas is the intrinsic gas of a plain value transfer.
	TxGas = 21_000

	// MemoTxGasCeil bounds a value transfer carrying sealed memo calldata.
	MemoTxGasCeil = 120_000

	// EnvelopeGasCeil bounds create and claim calls on the envelope contract.
	EnvelopeGasCeil = 300_000
)
