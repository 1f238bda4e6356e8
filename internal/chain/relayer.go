package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
)

// relayerClient talks to the signing relayer that fronts the LoanLedger
// contract. The relayer exposes payEMI as POST /pay (it only responds after
// the transaction is mined) and the repayment log as GET /repayments.
type relayerClient struct {
	baseURL string
	http    *http.Client
}

func NewRelayerClient(baseURL string, timeout time.Duration) Ledger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &relayerClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type payResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
	Error   string `json:"error,omitempty"`
}

func (c *relayerClient) SubmitPayment(ctx context.Context, req PaymentRequest) (*Confirmation, error) {
	logger.ExternalServiceCall("chain-relayer", "SubmitPayment", "kind", req.Kind, "reference", req.Reference, "amount", req.Amount)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encode payment: %v", domain.ErrLedgerConfirmation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pay", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerConfirmation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.ExternalServiceResult("chain-relayer", "SubmitPayment", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerConfirmation, err)
	}
	defer resp.Body.Close()

	var out payResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode relayer response: %v", domain.ErrLedgerConfirmation, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success || out.TxHash == "" {
		err := fmt.Errorf("%w: relayer status %d: %s", domain.ErrLedgerConfirmation, resp.StatusCode, out.Error)
		logger.ExternalServiceResult("chain-relayer", "SubmitPayment", err)
		return nil, err
	}

	logger.ExternalServiceResult("chain-relayer", "SubmitPayment", nil, "tx_hash", out.TxHash)
	return &Confirmation{TxHash: out.TxHash, ConfirmedAt: time.Now().UTC()}, nil
}

func (c *relayerClient) ListRepayments(ctx context.Context) ([]Repayment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/repayments", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerConfirmation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: relayer status %d", domain.ErrLedgerConfirmation, resp.StatusCode)
	}

	var repayments []Repayment
	if err := json.NewDecoder(resp.Body).Decode(&repayments); err != nil {
		return nil, fmt.Errorf("%w: decode repayment log: %v", domain.ErrLedgerConfirmation, err)
	}
	return repayments, nil
}
