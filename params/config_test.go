package params

import (
	"math/big"
	"testing"
)

func TestChainName(t *testing.T) {
	cases := []struct {
		id   *big.Int
		want string
	}{
		{nil, "unknown"},
		{SepoliaChainID, "sepolia"},
		{HoleskyChainID, "holesky"},
		{big.NewInt(1337), "1337"},
	}
	for _, tc := range cases {
		if got := ChainName(tc.id); got != tc.want {
			t.Errorf("ChainName(%v): have %q want %q", tc.id, got, tc.want)
		}
	}
}
