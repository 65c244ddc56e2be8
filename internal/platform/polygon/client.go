// Package polygon wraps the go-ethereum RPC client with the narrow surface the
// scanning pipeline consumes: log range queries, transaction receipts, and
// static contract calls.
package polygon

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is a thin wrapper around ethclient.Client. The embedded client
// provides FilterLogs, TransactionReceipt, CallContract, and BlockNumber.
type Client struct {
	*ethclient.Client
	rpcURL string
}

// Dial connects to the given JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		return nil, fmt.Errorf("polygon: rpc url missing")
	}
	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("polygon: dial %s: %w", rpcURL, err)
	}
	return &Client{Client: ec, rpcURL: rpcURL}, nil
}

// RPCURL returns the endpoint this client is connected to.
func (c *Client) RPCURL() string {
	return c.rpcURL
}
