// Package wallet adapts the grin-wallet owner API to the WalletBackend
// port. Slates and slatepacks stay opaque except for the three fields the
// engine dispatches on.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/grinventions/slateboy/config"
	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/pkg/apperror"

	"github.com/rs/zerolog"
)

// Client implements ports.WalletBackend against the owner API V3 JSON-RPC
// endpoint.
type Client struct {
	url      string
	user     string
	password string
	http     *http.Client
	log      zerolog.Logger
}

// NewClient creates a wallet client. The HTTP client carries the configured
// timeout, so every RPC is bounded.
func NewClient(cfg config.WalletConfig, log zerolog.Logger) *Client {
	return &Client{
		url:      cfg.URL,
		user:     cfg.User,
		password: cfg.Password,
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	Result *rpcResult      `json:"result"`
	Error  *rpcError       `json:"error"`
	ID     json.RawMessage `json:"id"`
}

type rpcResult struct {
	Ok  json.RawMessage `json:"Ok"`
	Err json.RawMessage `json:"Err"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call performs one owner-API RPC and unmarshals the Ok payload into out.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.ErrWalletFailure(method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperror.ErrWalletFailure(method, fmt.Errorf("http status %d", resp.StatusCode))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return apperror.ErrWalletFailure(method, fmt.Errorf("decode response: %w", err))
	}
	if rpcResp.Error != nil {
		return apperror.ErrWalletFailure(method, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message))
	}
	if rpcResp.Result == nil {
		return apperror.ErrWalletFailure(method, fmt.Errorf("empty result"))
	}
	if rpcResp.Result.Err != nil {
		return apperror.ErrWalletFailure(method, fmt.Errorf("wallet error: %s", string(rpcResp.Result.Err)))
	}
	if out != nil {
		if err := json.Unmarshal(rpcResp.Result.Ok, out); err != nil {
			return apperror.ErrWalletFailure(method, fmt.Errorf("decode ok payload: %w", err))
		}
	}
	return nil
}

// slateV4 is the subset of the V4 slate the engine needs. Amounts travel as
// decimal strings on the wire.
type slateV4 struct {
	ID  string `json:"id"`
	Sta string `json:"sta"`
	Amt string `json:"amt"`
}

func (s slateV4) toDomain() (*domain.Slate, error) {
	amt := int64(0)
	if s.Amt != "" {
		parsed, err := strconv.ParseInt(s.Amt, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse slate amount %q: %w", s.Amt, err)
		}
		amt = parsed
	}
	return &domain.Slate{
		ID:     s.ID,
		Status: domain.SlateStatus(s.Sta),
		Amount: amt,
	}, nil
}

// Sync rescans the wallet against the chain. Idempotent; the scheduler
// retries it on the next tick.
func (c *Client) Sync(ctx context.Context) error {
	return c.call(ctx, "scan", map[string]any{
		"start_height":       nil,
		"delete_unconfirmed": false,
	}, nil)
}

// IsReady checks node connectivity through the summary info call.
func (c *Client) IsReady(ctx context.Context) error {
	var info []json.RawMessage
	err := c.call(ctx, "retrieve_summary_info", map[string]any{
		"refresh_from_node":     true,
		"minimum_confirmations": 10,
	}, &info)
	if err != nil {
		return err
	}
	if len(info) < 2 {
		return apperror.ErrWalletNotReady("summary info unavailable")
	}
	return nil
}

// Send opens an outbound payment and returns the first slatepack round.
func (c *Client) Send(ctx context.Context, amount int64, dest string) (string, string, error) {
	var slate slateV4
	err := c.call(ctx, "init_send_tx", map[string]any{
		"args": map[string]any{
			"src_acct_name":                   nil,
			"amount":                          amount,
			"minimum_confirmations":           10,
			"max_outputs":                     500,
			"num_change_outputs":              1,
			"selection_strategy_is_use_all":   false,
			"payment_proof_recipient_address": nullable(dest),
			"target_slate_version":            nil,
			"ttl_blocks":                      nil,
			"send_args":                       nil,
		},
	}, &slate)
	if err != nil {
		return "", "", err
	}

	pack, err := c.armor(ctx, slate, dest)
	if err != nil {
		return "", "", err
	}
	return pack, slate.ID, nil
}

// Invoice opens an inbound payment request.
func (c *Client) Invoice(ctx context.Context, amount int64, dest string) (string, string, error) {
	var slate slateV4
	err := c.call(ctx, "issue_invoice_tx", map[string]any{
		"args": map[string]any{
			"amount":               amount,
			"dest_acct_name":       nil,
			"target_slate_version": nil,
		},
	}, &slate)
	if err != nil {
		return "", "", err
	}

	pack, err := c.armor(ctx, slate, dest)
	if err != nil {
		return "", "", err
	}
	return pack, slate.ID, nil
}

// Receive answers an unsolicited inbound send with the wallet's round.
func (c *Client) Receive(ctx context.Context, slatepack string) (string, string, error) {
	slate, err := c.DecodeSlatepack(ctx, slatepack)
	if err != nil {
		return "", "", err
	}

	var response struct {
		Slatepack string `json:"slatepack"`
	}
	err = c.call(ctx, "receive_tx", map[string]any{
		"slatepack":      slatepack,
		"dest_acct_name": nil,
	}, &response)
	if err != nil {
		return "", "", err
	}
	return response.Slatepack, slate.ID, nil
}

// Finalize completes the negotiation and posts the transaction.
func (c *Client) Finalize(ctx context.Context, slatepack string) (string, error) {
	var slate json.RawMessage
	err := c.call(ctx, "slate_from_slatepack_message", map[string]any{
		"message":        slatepack,
		"secret_indices": []int{0},
	}, &slate)
	if err != nil {
		return "", err
	}

	var finalized json.RawMessage
	if err := c.call(ctx, "finalize_tx", map[string]any{"slate": slate}, &finalized); err != nil {
		return "", err
	}

	if err := c.call(ctx, "post_tx", map[string]any{"slate": finalized, "fluff": false}, nil); err != nil {
		return "", err
	}

	var pack string
	err = c.call(ctx, "create_slatepack_message", map[string]any{
		"slate":        finalized,
		"recipients":   []string{},
		"sender_index": nil,
	}, &pack)
	if err != nil {
		return "", err
	}
	return pack, nil
}

// ReleaseLock cancels the wallet-side transaction, releasing its outputs.
func (c *Client) ReleaseLock(ctx context.Context, txID string) error {
	return c.call(ctx, "cancel_tx", map[string]any{
		"tx_id":       nil,
		"tx_slate_id": txID,
	}, nil)
}

// DecodeSlatepack unwraps a slatepack into the dispatch fields.
func (c *Client) DecodeSlatepack(ctx context.Context, slatepack string) (*domain.Slate, error) {
	var slate slateV4
	err := c.call(ctx, "slate_from_slatepack_message", map[string]any{
		"message":        slatepack,
		"secret_indices": []int{0},
	}, &slate)
	if err != nil {
		return nil, err
	}
	return slate.toDomain()
}

// txLogEntry is the subset of the wallet's transaction log the sweep needs.
type txLogEntry struct {
	TxSlateID      *string `json:"tx_slate_id"`
	TxType         string  `json:"tx_type"`
	Confirmed      bool    `json:"confirmed"`
	AmountCredited string  `json:"amount_credited"`
	AmountDebited  string  `json:"amount_debited"`
}

// QueryStatus reports the wallet's ground-truth view of a transaction.
func (c *Client) QueryStatus(ctx context.Context, txID string) (domain.WalletTxStatus, domain.OperationKind, int64, error) {
	var result []json.RawMessage
	err := c.call(ctx, "retrieve_txs", map[string]any{
		"refresh_from_node": true,
		"tx_id":             nil,
		"tx_slate_id":       txID,
	}, &result)
	if err != nil {
		return "", "", 0, err
	}
	if len(result) < 2 {
		return "", "", 0, apperror.ErrWalletFailure("retrieve_txs", fmt.Errorf("malformed response"))
	}

	var entries []txLogEntry
	if err := json.Unmarshal(result[1], &entries); err != nil {
		return "", "", 0, apperror.ErrWalletFailure("retrieve_txs", fmt.Errorf("decode entries: %w", err))
	}

	for _, e := range entries {
		if e.TxSlateID == nil || *e.TxSlateID != txID {
			continue
		}
		return mapEntry(e)
	}
	return "", "", 0, apperror.ErrUnknownTransaction(txID)
}

func mapEntry(e txLogEntry) (domain.WalletTxStatus, domain.OperationKind, int64, error) {
	var kind domain.OperationKind
	var amountStr string
	switch e.TxType {
	case "TxReceived", "TxReceivedCancelled":
		kind = domain.OperationDeposit
		amountStr = e.AmountCredited
	case "TxSent", "TxSentCancelled":
		kind = domain.OperationWithdraw
		amountStr = e.AmountDebited
	default:
		return "", "", 0, fmt.Errorf("unexpected tx type %q", e.TxType)
	}

	amount := int64(0)
	if amountStr != "" {
		parsed, err := strconv.ParseInt(amountStr, 10, 64)
		if err != nil {
			return "", "", 0, fmt.Errorf("parse tx amount %q: %w", amountStr, err)
		}
		amount = parsed
	}

	status := domain.WalletTxConfirming
	switch {
	case e.TxType == "TxReceivedCancelled" || e.TxType == "TxSentCancelled":
		status = domain.WalletTxCanceled
	case e.Confirmed:
		status = domain.WalletTxConfirmed
	}
	return status, kind, amount, nil
}

// armor wraps a slate into a slatepack message for the given recipient.
func (c *Client) armor(ctx context.Context, slate slateV4, dest string) (string, error) {
	recipients := []string{}
	if dest != "" {
		recipients = append(recipients, dest)
	}
	var pack string
	err := c.call(ctx, "create_slatepack_message", map[string]any{
		"slate":        slate,
		"recipients":   recipients,
		"sender_index": 0,
	}, &pack)
	if err != nil {
		return "", err
	}
	return pack, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
