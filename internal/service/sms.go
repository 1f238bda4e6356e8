package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shg-backend/internal/logger"
)

// smsGateway posts OTP messages to an external SMS delivery service.
type smsGateway struct {
	gatewayURL string
	client     *http.Client
}

func NewSMSGateway(gatewayURL string, timeout time.Duration) SMSSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &smsGateway{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: timeout},
	}
}

func (g *smsGateway) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.gatewayURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.ExternalServiceCall("sms-gateway", "Send")
	resp, err := g.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult("sms-gateway", "Send", err)
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("sms-gateway", "Send", err)
		return err
	}

	logger.ExternalServiceResult("sms-gateway", "Send", nil)
	return nil
}
