package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newTestIndex serves canned GraphQL responses and records every request.
func newTestIndex(t *testing.T, data string) (*Client, *[]gqlRequest) {
	t.Helper()
	var requests []gqlRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(data))
	}))
	t.Cleanup(server.Close)
	return New(server.URL), &requests
}

const envelopesResponse = `{"data":{"envelopes":[
	{"id":"42","creator":"0x00000000000000000000000000000000deadbeef",
	 "total":"1000000000000000","count":8,"claimed":3,
	 "message":"0xa5b6","createdAt":"1714000000",
	 "txHash":"0x6b2e5a1628f3e35a1c7f543e85a1b1cdb5a9c4f9d7a90b4e31f2f0d6c8e37a10"}
]}}`

func TestRecentEnvelopes(t *testing.T) {
	client, requests := newTestIndex(t, envelopesResponse)

	envs, err := client.RecentEnvelopes(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, envs, 1)

	env := envs[0]
	assert.Equal(t, "42", env.ID)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000deadbeef"), env.Creator)
	assert.Equal(t, "1000000000000000", env.Total.String())
	assert.Equal(t, uint32(8), env.Count)
	assert.Equal(t, uint32(3), env.Claimed)
	assert.Equal(t, "0xa5b6", env.Message)
	assert.Equal(t, uint64(1714000000), env.CreatedAt)
	assert.False(t, env.Exhausted())

	require.Len(t, *requests, 1)
	assert.Equal(t, float64(10), (*requests)[0].Variables["first"])
}

func TestRecentEnvelopesCached(t *testing.T) {
	client, requests := newTestIndex(t, envelopesResponse)

	_, err := client.RecentEnvelopes(context.Background(), 10)
	require.NoError(t, err)
	_, err = client.RecentEnvelopes(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, *requests, 1, "second identical query should be served from cache")

	// A different limit is a different cache entry.
	_, err = client.RecentEnvelopes(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, *requests, 2)
}

func TestEnvelopesByCreatorVariables(t *testing.T) {
	client, requests := newTestIndex(t, envelopesResponse)

	creator := common.HexToAddress("0x00000000000000000000000000000000DeaDBeef")
	_, err := client.EnvelopesByCreator(context.Background(), creator, 0)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	vars := (*requests)[0].Variables
	assert.Equal(t, "0x00000000000000000000000000000000deadbeef", vars["creator"],
		"creator must be lowercased for the index")
	assert.Equal(t, float64(defaultLimit), vars["first"], "zero limit uses the default")
}

func TestClaimsByEnvelope(t *testing.T) {
	client, _ := newTestIndex(t, `{"data":{"claims":[
		{"id":"42-1","envelope":"42","claimer":"0x00000000000000000000000000000000cafebabe",
		 "amount":"125000000000000","claimedAt":"1714000060",
		 "txHash":"0x0b3e5a1628f3e35a1c7f543e85a1b1cdb5a9c4f9d7a90b4e31f2f0d6c8e37a10"}
	]}}`)

	claims, err := client.ClaimsByEnvelope(context.Background(), "42", 10)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "42", claims[0].EnvelopeID)
	assert.Equal(t, "125000000000000", claims[0].Amount.String())
	assert.Equal(t, uint64(1714000060), claims[0].ClaimedAt)
}

func TestMalformedRecord(t *testing.T) {
	client, _ := newTestIndex(t, `{"data":{"envelopes":[
		{"id":"7","creator":"0x00000000000000000000000000000000deadbeef",
		 "total":"not-a-number","count":1,"claimed":0,
		 "message":"0x","createdAt":"1714000000","txHash":"0x00"}
	]}}`)

	_, err := client.RecentEnvelopes(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadRecord), "have %v want ErrBadRecord", err)
}

func TestQueryError(t *testing.T) {
	client, _ := newTestIndex(t, `{"errors":[{"message":"entity not indexed"}]}`)

	_, err := client.RecentEnvelopes(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity not indexed")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultLimit, clampLimit(0))
	assert.Equal(t, defaultLimit, clampLimit(-3))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, maxLimit, clampLimit(1000))
}
