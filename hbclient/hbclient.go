// Package hbclient provides a typed client for the demo's chain operations:
// account and block reads, memo-carrying value transfers, and red-envelope
// contract calls. All RPC behavior is delegated to the go-ethereum client;
// this package only shapes it for the commands.
package hbclient

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/hongbao-labs/hongbao/envelope"
	"github.com/hongbao-labs/hongbao/params"
)

var (
	// ErrNoKey indicates a transaction was requested without a signing key.
	ErrNoKey = errors.New("hbclient: missing signing key")

	// ErrGasCeilExceeded indicates the estimated gas exceeds the demo ceiling.
	ErrGasCeilExceeded = errors.New("hbclient: gas estimate above ceiling")
)

// Client defines typed wrappers for the chain operations the demo commands
// need.
type Client struct {
	c   *rpc.Client
	eth *ethclient.Client
}

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c, eth: ethclient.NewClient(c)}
}

func (ec *Client) Close() {
	ec.c.Close()
}

// Blockchain Access

// ChainID retrieves the current chain ID for transaction replay protection.
func (ec *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return ec.eth.ChainID(ctx)
}

// BlockNumber returns the most recent block number.
func (ec *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return ec.eth.BlockNumber(ctx)
}

// HeaderByNumber returns a block header from the canonical chain. If number
// is nil, the latest known header is returned.
func (ec *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return ec.eth.HeaderByNumber(ctx, number)
}

// BalanceAt returns the wei balance of the given account. The block number
// can be nil, in which case the balance is taken from the latest known block.
func (ec *Client) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return ec.eth.BalanceAt(ctx, account, blockNumber)
}

// PendingNonceAt returns the nonce that should be used for the account's
// next transaction.
func (ec *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return ec.eth.PendingNonceAt(ctx, account)
}

// TransactionByHash returns the transaction with the given hash.
func (ec *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	return ec.eth.TransactionByHash(ctx, hash)
}

// TransactionReceipt returns the receipt of a transaction by transaction
// hash. The receipt is not available for pending transactions.
func (ec *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return ec.eth.TransactionReceipt(ctx, txHash)
}

// AccountOverview contains the balance and nonce of an account together with
// the head block they were read at.
type AccountOverview struct {
	Address common.Address
	Balance *big.Int
	Nonce   uint64
	Block   uint64
}

// AccountOverview reads balance, nonce and head block in a single batch
// request so the three values describe one consistent view.
func (ec *Client) AccountOverview(ctx context.Context, address common.Address) (*AccountOverview, error) {
	var (
		balance hexutil.Big
		nonce   hexutil.Uint64
		head    hexutil.Uint64
	)
	reqs := []rpc.BatchElem{
		{Method: "eth_getBalance", Args: []interface{}{address, "latest"}, Result: &balance},
		{Method: "eth_getTransactionCount", Args: []interface{}{address, "latest"}, Result: &nonce},
		{Method: "eth_blockNumber", Result: &head},
	}
	if err := ec.c.BatchCallContext(ctx, reqs); err != nil {
		return nil, err
	}
	for i := range reqs {
		if reqs[i].Error != nil {
			return nil, reqs[i].Error
		}
	}
	return &AccountOverview{
		Address: address,
		Balance: (*big.Int)(&balance),
		Nonce:   uint64(nonce),
		Block:   uint64(head),
	}, nil
}

// FeeSuggestion carries suggested pricing for the next transaction. On
// dynamic-fee chains TipCap/FeeCap are set; on legacy chains only GasPrice.
type FeeSuggestion struct {
	TipCap   *big.Int
	FeeCap   *big.Int
	GasPrice *big.Int
}

// SuggestFees retrieves suggested transaction pricing from the node. The fee
// cap leaves headroom of twice the current base fee so the transaction
// survives base-fee growth while pending.
func (ec *Client) SuggestFees(ctx context.Context) (*FeeSuggestion, error) {
	head, err := ec.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}
	if head.BaseFee == nil {
		price, err := ec.eth.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		return &FeeSuggestion{GasPrice: price}, nil
	}
	tip, err := ec.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}
	return &FeeSuggestion{
		TipCap: tip,
		FeeCap: calcFeeCap(head.BaseFee, tip),
	}, nil
}

func calcFeeCap(baseFee, tip *big.Int) *big.Int {
	feeCap := new(big.Int).Mul(baseFee, big.NewInt(2))
	return feeCap.Add(feeCap, tip)
}

// Transaction Submission

// TxOpts bundles the optional knobs for building and signing a transaction.
type TxOpts struct {
	Key      *ecdsa.PrivateKey // signs locally; the key never leaves the process
	Value    *big.Int          // wei to transfer, nil means zero
	GasLimit uint64            // explicit gas limit, 0 estimates
	GasCeil  uint64            // bound on estimation, 0 uses params.MemoTxGasCeil
	Nonce    *uint64           // explicit nonce, nil fetches the pending nonce
}

// SendTx builds a dynamic-fee transaction carrying data, signs it with the
// key from opts and submits it to the pending pool.
func (ec *Client) SendTx(ctx context.Context, to *common.Address, data []byte, opts TxOpts) (*types.Transaction, error) {
	if opts.Key == nil {
		return nil, ErrNoKey
	}
	from := crypto.PubkeyToAddress(opts.Key.PublicKey)
	chainID, err := ec.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("hbclient: chain id: %w", err)
	}
	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}
	var nonce uint64
	if opts.Nonce != nil {
		nonce = *opts.Nonce
	} else {
		nonce, err = ec.eth.PendingNonceAt(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("hbclient: pending nonce: %w", err)
		}
	}
	fees, err := ec.SuggestFees(ctx)
	if err != nil {
		return nil, fmt.Errorf("hbclient: suggest fees: %w", err)
	}
	gas := opts.GasLimit
	if gas == 0 {
		est, err := ec.eth.EstimateGas(ctx, ethereum.CallMsg{From: from, To: to, Value: value, Data: data})
		if err != nil {
			return nil, fmt.Errorf("hbclient: estimate gas: %w", err)
		}
		ceil := opts.GasCeil
		if ceil == 0 {
			ceil = params.MemoTxGasCeil
		}
		if est > ceil {
			return nil, fmt.Errorf("%w: estimated %d, ceiling %d", ErrGasCeilExceeded, est, ceil)
		}
		gas = est
	}
	var tx *types.Transaction
	if fees.GasPrice != nil {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: fees.GasPrice,
			Gas:      gas,
			To:       to,
			Value:    value,
			Data:     data,
		})
	} else {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: fees.TipCap,
			GasFeeCap: fees.FeeCap,
			Gas:       gas,
			To:        to,
			Value:     value,
			Data:      data,
		})
	}
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), opts.Key)
	if err != nil {
		return nil, fmt.Errorf("hbclient: sign transaction: %w", err)
	}
	if err := ec.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("hbclient: send transaction: %w", err)
	}
	log.Info("Submitted transaction", "hash", signed.Hash(), "from", from, "nonce", signed.Nonce(), "gas", gas)
	return signed, nil
}

// SendSealedMemo submits a value transfer to the given recipient with the
// sealed memo bytes embedded as calldata.
func (ec *Client) SendSealedMemo(ctx context.Context, to common.Address, sealedMemo []byte, opts TxOpts) (*types.Transaction, error) {
	return ec.SendTx(ctx, &to, sealedMemo, opts)
}

// CreateEnvelope funds a new red envelope: create(count, sealedMemo) with
// total wei attached as transaction value.
func (ec *Client) CreateEnvelope(ctx context.Context, contract common.Address, count uint32, sealedMemo []byte, total *big.Int, opts TxOpts) (*types.Transaction, error) {
	data, err := envelope.PackCreate(count, sealedMemo)
	if err != nil {
		return nil, err
	}
	opts.Value = total
	if opts.GasCeil == 0 {
		opts.GasCeil = params.EnvelopeGasCeil
	}
	return ec.SendTx(ctx, &contract, data, opts)
}

// ClaimEnvelope grabs one share of the envelope with the given id.
func (ec *Client) ClaimEnvelope(ctx context.Context, contract common.Address, id *big.Int, opts TxOpts) (*types.Transaction, error) {
	data, err := envelope.PackClaim(id)
	if err != nil {
		return nil, err
	}
	if opts.GasCeil == 0 {
		opts.GasCeil = params.EnvelopeGasCeil
	}
	return ec.SendTx(ctx, &contract, data, opts)
}

// WaitMined blocks until the transaction is mined or ctx is done and returns
// its receipt.
func (ec *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, ec.eth, tx)
}

// EnvelopeLogs fetches the envelope contract's events in the given block
// range. Either bound can be nil for the chain's current edge.
func (ec *Client) EnvelopeLogs(ctx context.Context, contract common.Address, fromBlock, toBlock *big.Int) ([]types.Log, error) {
	return ec.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Addresses: []common.Address{contract},
		Topics:    envelope.EventTopics(),
	})
}
