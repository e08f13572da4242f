// Package indexer queries the hosted GraphQL index of red-envelope
// activity. The index itself is an external collaborator; this package only
// issues read queries and reshapes the records for the commands.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/machinebox/graphql"
)

// ErrBadRecord indicates the index returned a record whose numeric or hash
// fields cannot be parsed.
var ErrBadRecord = errors.New("indexer: malformed record")

const (
	defaultLimit = 20
	maxLimit     = 100

	// cacheSize bounds the in-memory query cache. Results are cached for the
	// process lifetime; the demo treats the index as read-mostly.
	cacheSize = 64
)

// Envelope is a red envelope as recorded by the index.
type Envelope struct {
	ID        string
	Creator   common.Address
	Total     *big.Int // wei funded at creation
	Count     uint32   // total shares
	Claimed   uint32   // shares already grabbed
	Message   string   // sealed memo payload, 0x hex
	CreatedAt uint64   // unix seconds
	TxHash    common.Hash
}

// Exhausted reports whether every share of the envelope has been claimed.
func (e *Envelope) Exhausted() bool {
	return e.Claimed >= e.Count
}

// Claim is a single share grab as recorded by the index.
type Claim struct {
	ID         string
	EnvelopeID string
	Claimer    common.Address
	Amount     *big.Int // wei paid out
	ClaimedAt  uint64   // unix seconds
	TxHash     common.Hash
}

// Client issues read queries against the hosted index.
type Client struct {
	gql   *graphql.Client
	cache *lru.Cache
}

// New creates a client for the index at the given GraphQL endpoint.
func New(endpoint string) *Client {
	return NewWithHTTPClient(endpoint, nil)
}

// NewWithHTTPClient is like New but routes queries through the given HTTP
// client, for callers that need custom timeouts or transports.
func NewWithHTTPClient(endpoint string, hc *http.Client) *Client {
	var opts []graphql.ClientOption
	if hc != nil {
		opts = append(opts, graphql.WithHTTPClient(hc))
	}
	cache, _ := lru.New(cacheSize)
	return &Client{
		gql:   graphql.NewClient(endpoint, opts...),
		cache: cache,
	}
}

const recentEnvelopesQuery = `query ($first: Int!) {
  envelopes(first: $first, orderBy: createdAt, orderDirection: desc) {
    id creator total count claimed message createdAt txHash
  }
}`

const envelopesByCreatorQuery = `query ($creator: String!, $first: Int!) {
  envelopes(first: $first, orderBy: createdAt, orderDirection: desc, where: {creator: $creator}) {
    id creator total count claimed message createdAt txHash
  }
}`

const claimsByEnvelopeQuery = `query ($envelope: String!, $first: Int!) {
  claims(first: $first, orderBy: claimedAt, orderDirection: desc, where: {envelope: $envelope}) {
    id envelope claimer amount claimedAt txHash
  }
}`

type rawEnvelope struct {
	ID        string `json:"id"`
	Creator   string `json:"creator"`
	Total     string `json:"total"`
	Count     uint32 `json:"count"`
	Claimed   uint32 `json:"claimed"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
	TxHash    string `json:"txHash"`
}

type rawClaim struct {
	ID        string `json:"id"`
	Envelope  string `json:"envelope"`
	Claimer   string `json:"claimer"`
	Amount    string `json:"amount"`
	ClaimedAt string `json:"claimedAt"`
	TxHash    string `json:"txHash"`
}

// RecentEnvelopes returns the newest envelopes known to the index.
func (c *Client) RecentEnvelopes(ctx context.Context, limit int) ([]*Envelope, error) {
	limit = clampLimit(limit)
	key := fmt.Sprintf("recent|%d", limit)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]*Envelope), nil
	}
	req := graphql.NewRequest(recentEnvelopesQuery)
	req.Var("first", limit)
	out, err := c.runEnvelopes(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, out)
	return out, nil
}

// EnvelopesByCreator returns the newest envelopes funded by the given
// account.
func (c *Client) EnvelopesByCreator(ctx context.Context, creator common.Address, limit int) ([]*Envelope, error) {
	limit = clampLimit(limit)
	key := fmt.Sprintf("creator|%s|%d", strings.ToLower(creator.Hex()), limit)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]*Envelope), nil
	}
	req := graphql.NewRequest(envelopesByCreatorQuery)
	req.Var("creator", strings.ToLower(creator.Hex()))
	req.Var("first", limit)
	out, err := c.runEnvelopes(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, out)
	return out, nil
}

// ClaimsByEnvelope returns the newest claims recorded against the envelope
// with the given index id.
func (c *Client) ClaimsByEnvelope(ctx context.Context, envelopeID string, limit int) ([]*Claim, error) {
	limit = clampLimit(limit)
	key := fmt.Sprintf("claims|%s|%d", envelopeID, limit)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]*Claim), nil
	}
	req := graphql.NewRequest(claimsByEnvelopeQuery)
	req.Var("envelope", envelopeID)
	req.Var("first", limit)
	var resp struct {
		Claims []rawClaim `json:"claims"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("indexer: claims query: %w", err)
	}
	out := make([]*Claim, 0, len(resp.Claims))
	for i := range resp.Claims {
		claim, err := convertClaim(&resp.Claims[i])
		if err != nil {
			return nil, err
		}
		out = append(out, claim)
	}
	c.cache.Add(key, out)
	return out, nil
}

func (c *Client) runEnvelopes(ctx context.Context, req *graphql.Request) ([]*Envelope, error) {
	var resp struct {
		Envelopes []rawEnvelope `json:"envelopes"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("indexer: envelopes query: %w", err)
	}
	out := make([]*Envelope, 0, len(resp.Envelopes))
	for i := range resp.Envelopes {
		env, err := convertEnvelope(&resp.Envelopes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

func convertEnvelope(raw *rawEnvelope) (*Envelope, error) {
	total, err := parseBig(raw.Total)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope %s total %q", ErrBadRecord, raw.ID, raw.Total)
	}
	createdAt, err := parseTimestamp(raw.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope %s createdAt %q", ErrBadRecord, raw.ID, raw.CreatedAt)
	}
	if !common.IsHexAddress(raw.Creator) {
		return nil, fmt.Errorf("%w: envelope %s creator %q", ErrBadRecord, raw.ID, raw.Creator)
	}
	return &Envelope{
		ID:        raw.ID,
		Creator:   common.HexToAddress(raw.Creator),
		Total:     total,
		Count:     raw.Count,
		Claimed:   raw.Claimed,
		Message:   raw.Message,
		CreatedAt: createdAt,
		TxHash:    common.HexToHash(raw.TxHash),
	}, nil
}

func convertClaim(raw *rawClaim) (*Claim, error) {
	amount, err := parseBig(raw.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: claim %s amount %q", ErrBadRecord, raw.ID, raw.Amount)
	}
	claimedAt, err := parseTimestamp(raw.ClaimedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: claim %s claimedAt %q", ErrBadRecord, raw.ID, raw.ClaimedAt)
	}
	if !common.IsHexAddress(raw.Claimer) {
		return nil, fmt.Errorf("%w: claim %s claimer %q", ErrBadRecord, raw.ID, raw.Claimer)
	}
	return &Claim{
		ID:         raw.ID,
		EnvelopeID: raw.Envelope,
		Claimer:    common.HexToAddress(raw.Claimer),
		Amount:     amount,
		ClaimedAt:  claimedAt,
		TxHash:     common.HexToHash(raw.TxHash),
	}, nil
}

func parseBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, ErrBadRecord
	}
	return v, nil
}

func parseTimestamp(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}
