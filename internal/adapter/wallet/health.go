package wallet

import "context"

// HealthCheck implements ports.HealthChecker for the grin-wallet owner API.
type HealthCheck struct {
	client *Client
}

// NewHealthCheck creates a wallet health checker.
func NewHealthCheck(client *Client) *HealthCheck {
	return &HealthCheck{client: client}
}

// Ping checks that the owner API answers and the wallet is usable.
func (h *HealthCheck) Ping(ctx context.Context) error {
	return h.client.IsReady(ctx)
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "wallet"
}
