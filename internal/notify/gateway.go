// Package notify sends SMS to on-site contacts through an HTTP gateway.
// Dispatch is best-effort: failures are logged, never surfaced as blocking.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GatewayClient talks to the SMS provider's HTTP API.
type GatewayClient struct {
	baseURL string
	token   string
	sender  string
	http    *http.Client
}

func NewGatewayClient(baseURL, token, sender string) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		token:   token,
		sender:  sender,
		http: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type sendMessageReq struct {
	To     string `json:"to"`
	Body   string `json:"body"`
	Sender string `json:"sender,omitempty"`
}

type gatewayResp struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// Send posts one message. No delivery confirmation is consumed beyond the
// gateway's accept/reject.
func (c *GatewayClient) Send(ctx context.Context, phoneE164, body string) error {
	if c.token == "" {
		return fmt.Errorf("sms gateway token is not configured")
	}

	payload := sendMessageReq{To: phoneE164, Body: body, Sender: c.sender}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway http %d: %s", resp.StatusCode, string(raw))
	}

	var gr gatewayResp
	if err := json.Unmarshal(raw, &gr); err != nil {
		return fmt.Errorf("sms gateway decode error: %w", err)
	}
	if !gr.OK {
		return fmt.Errorf("sms gateway error: %s", gr.Error)
	}
	return nil
}
