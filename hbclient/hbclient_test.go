package hbclient

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

type rpcTestService struct {
	lastBalanceAddress common.Address
	lastBalanceBlock   string
	lastNonceAddress   common.Address
}

func (s *rpcTestService) ChainId() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(11_155_111))
}

func (s *rpcTestService) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(4321)
}

func (s *rpcTestService) GetBalance(address common.Address, block string) *hexutil.Big {
	s.lastBalanceAddress = address
	s.lastBalanceBlock = block
	return (*hexutil.Big)(big.NewInt(999))
}

func (s *rpcTestService) GetTransactionCount(address common.Address, block string) hexutil.Uint64 {
	s.lastNonceAddress = address
	return hexutil.Uint64(7)
}

func newTestClient(t *testing.T) (*Client, *rpcTestService) {
	t.Helper()
	server := rpc.NewServer()
	service := new(rpcTestService)
	if err := server.RegisterName("eth", service); err != nil {
		t.Fatalf("register test service: %v", err)
	}
	t.Cleanup(server.Stop)
	client := NewClient(rpc.DialInProc(server))
	t.Cleanup(client.Close)
	return client, service
}

func TestChainID(t *testing.T) {
	client, _ := newTestClient(t)
	id, err := client.ChainID(context.Background())
	if err != nil {
		t.Fatalf("ChainID: %v", err)
	}
	if id.Int64() != 11_155_111 {
		t.Fatalf("chain id mismatch: have %v want 11155111", id)
	}
}

func TestBalanceAt(t *testing.T) {
	client, service := newTestClient(t)
	addr := common.HexToAddress("0x00000000000000000000000000000000deadbeef")
	balance, err := client.BalanceAt(context.Background(), addr, nil)
	if err != nil {
		t.Fatalf("BalanceAt: %v", err)
	}
	if balance.Int64() != 999 {
		t.Fatalf("balance mismatch: have %v want 999", balance)
	}
	if service.lastBalanceAddress != addr {
		t.Fatalf("address mismatch: have %s", service.lastBalanceAddress.Hex())
	}
	if service.lastBalanceBlock != "latest" {
		t.Fatalf("block arg mismatch: have %q want \"latest\"", service.lastBalanceBlock)
	}
}

func TestAccountOverview(t *testing.T) {
	client, service := newTestClient(t)
	addr := common.HexToAddress("0x00000000000000000000000000000000cafebabe")
	overview, err := client.AccountOverview(context.Background(), addr)
	if err != nil {
		t.Fatalf("AccountOverview: %v", err)
	}
	if overview.Address != addr {
		t.Fatalf("address mismatch: %s", overview.Address.Hex())
	}
	if overview.Balance.Int64() != 999 {
		t.Fatalf("balance mismatch: %v", overview.Balance)
	}
	if overview.Nonce != 7 {
		t.Fatalf("nonce mismatch: %d", overview.Nonce)
	}
	if overview.Block != 4321 {
		t.Fatalf("block mismatch: %d", overview.Block)
	}
	if service.lastNonceAddress != addr {
		t.Fatalf("nonce queried for wrong address: %s", service.lastNonceAddress.Hex())
	}
}

func TestSendTxRequiresKey(t *testing.T) {
	client, _ := newTestClient(t)
	if _, err := client.SendTx(context.Background(), nil, nil, TxOpts{}); !errors.Is(err, ErrNoKey) {
		t.Fatalf("have %v want ErrNoKey", err)
	}
}

func TestCalcFeeCap(t *testing.T) {
	got := calcFeeCap(big.NewInt(100), big.NewInt(3))
	if got.Int64() != 203 {
		t.Fatalf("fee cap mismatch: have %v want 203", got)
	}
}
