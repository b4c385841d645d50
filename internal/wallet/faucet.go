package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Faucet funds new accounts through the test network's faucet endpoint.
type Faucet struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewFaucet(url string, logger *zap.Logger) *Faucet {
	return &Faucet{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type faucetRequest struct {
	Destination string `json:"destination"`
	UserAgent   string `json:"userAgent"`
}

type faucetResponse struct {
	Account struct {
		Address        string `json:"address"`
		ClassicAddress string `json:"classicAddress"`
	} `json:"account"`
	Amount json.Number `json:"amount"`
}

// Fund asks the faucet to credit address. The credit shows up on the ledger
// some time after Fund returns.
func (f *Faucet) Fund(ctx context.Context, address string) error {
	body, err := json.Marshal(faucetRequest{Destination: address, UserAgent: "campuspay"})
	if err != nil {
		return fmt.Errorf("failed to encode faucet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute faucet request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("faucet error (status %d): %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out faucetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		f.logger.Debug("faucet response not decoded", zap.Error(err))
	}

	f.logger.Info("faucet funding requested",
		zap.String("address", address),
		zap.String("amount", out.Amount.String()))
	return nil
}
