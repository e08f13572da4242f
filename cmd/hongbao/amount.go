package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/hongbao-labs/hongbao/params"
)

var errBadAmount = errors.New("invalid ether amount")

// parseEther converts a decimal ether string like "0.05" into wei. The
// amount must be non-negative and not carry more than 18 fractional digits.
func parseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errBadAmount
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", errBadAmount, s)
	}
	r.Mul(r, new(big.Rat).SetInt64(params.Ether))
	if !r.IsInt() {
		return nil, fmt.Errorf("%w: %q has sub-wei precision", errBadAmount, s)
	}
	return r.Num(), nil
}

// formatEther renders wei as a decimal ether string with trailing
// zeros removed.
func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	r := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether))
	s := r.FloatString(18)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
