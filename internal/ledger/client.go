package ledger

import (
	"context"
	"errors"
	"fmt"
)

// apiVersion pins the response layout of tx and account_tx.
const apiVersion = 1

// Client issues typed requests over the Manager's shared session.
type Client struct {
	mgr *Manager
}

func NewClient(mgr *Manager) *Client {
	return &Client{mgr: mgr}
}

// Do sends a raw command. See Conn.Request for error types.
func (c *Client) Do(ctx context.Context, command string, params map[string]any, result any) error {
	conn, err := c.mgr.Acquire(ctx)
	if err != nil {
		return err
	}
	return conn.Request(ctx, command, params, result)
}

// AccountInfo reads an account root at ledgerIndex ("validated", "current"
// or a sequence number).
func (c *Client) AccountInfo(ctx context.Context, account, ledgerIndex string) (*AccountInfoResult, error) {
	var res AccountInfoResult
	err := c.Do(ctx, "account_info", map[string]any{
		"account":      account,
		"ledger_index": ledgerIndex,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Fee(ctx context.Context) (*FeeResult, error) {
	var res FeeResult
	if err := c.Do(ctx, "fee", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LedgerCurrent returns the index of the open ledger.
func (c *Client) LedgerCurrent(ctx context.Context) (uint32, error) {
	var res struct {
		LedgerCurrentIndex uint32 `json:"ledger_current_index"`
	}
	if err := c.Do(ctx, "ledger_current", nil, &res); err != nil {
		return 0, err
	}
	return res.LedgerCurrentIndex, nil
}

// ValidatedLedgerIndex returns the latest validated ledger index.
func (c *Client) ValidatedLedgerIndex(ctx context.Context) (uint32, error) {
	var res struct {
		LedgerIndex uint32 `json:"ledger_index"`
		Validated   bool   `json:"validated"`
	}
	err := c.Do(ctx, "ledger", map[string]any{"ledger_index": "validated"}, &res)
	if err != nil {
		return 0, err
	}
	if res.LedgerIndex == 0 {
		return 0, errors.New("ledger: server returned no validated ledger")
	}
	return res.LedgerIndex, nil
}

func (c *Client) Submit(ctx context.Context, txBlob string) (*SubmitResult, error) {
	var res SubmitResult
	if err := c.Do(ctx, "submit", map[string]any{"tx_blob": txBlob}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Tx looks a transaction up by hash. An unknown hash is an *RPCError with
// token txnNotFound.
func (c *Client) Tx(ctx context.Context, hash string) (*TxResponse, error) {
	var res TxResponse
	err := c.Do(ctx, "tx", map[string]any{
		"transaction": hash,
		"binary":      false,
		"api_version": apiVersion,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AccountNFTs(ctx context.Context, account string) (*AccountNFTsResult, error) {
	var res AccountNFTsResult
	err := c.Do(ctx, "account_nfts", map[string]any{
		"account":      account,
		"ledger_index": "validated",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// NFTInfo is served by Clio nodes; plain rippled answers unknownCmd.
func (c *Client) NFTInfo(ctx context.Context, nftID string) (*NFTInfoResult, error) {
	var res NFTInfoResult
	if err := c.Do(ctx, "nft_info", map[string]any{"nft_id": nftID}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AccountTx(ctx context.Context, req AccountTxRequest) (*AccountTxResult, error) {
	if req.Account == "" {
		return nil, fmt.Errorf("account_tx: account is required")
	}
	params := map[string]any{
		"account":          req.Account,
		"ledger_index_min": -1,
		"ledger_index_max": -1,
		"binary":           false,
		"forward":          req.Forward,
		"api_version":      apiVersion,
	}
	if req.Limit > 0 {
		params["limit"] = req.Limit
	}
	if len(req.Marker) > 0 {
		params["marker"] = req.Marker
	}

	var res AccountTxResult
	if err := c.Do(ctx, "account_tx", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ServerInfo(ctx context.Context) (*ServerInfoResult, error) {
	var res ServerInfoResult
	if err := c.Do(ctx, "server_info", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
