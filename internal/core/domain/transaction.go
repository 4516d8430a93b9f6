package domain

import (
	"time"
)

// OperationKind distinguishes the two directions of value movement.
type OperationKind string

const (
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
)

// TransactionStatus is the lifecycle state of a slate negotiation. Terminal
// states are only ever reached by the reconciliation sweep consulting wallet
// ground truth, never optimistically from the negotiation itself.
type TransactionStatus string

const (
	TransactionStatusAssigned  TransactionStatus = "ASSIGNED"
	TransactionStatusFinalized TransactionStatus = "FINALIZED"
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED"
	TransactionStatusCanceled  TransactionStatus = "CANCELED"
)

// Transaction is a registry entry pairing a wallet-issued slate id with the
// owning user and the reserved amount.
type Transaction struct {
	ID        string            `json:"id"` // wallet-issued slate UUID
	UserID    int64             `json:"user_id"`
	Kind      OperationKind     `json:"kind"`
	Amount    int64             `json:"amount"` // nanogrin
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsTerminal reports whether the sweep already settled this transaction.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusConfirmed || t.Status == TransactionStatusCanceled
}

// Age returns how long the transaction has been open.
func (t *Transaction) Age(now time.Time) time.Duration {
	return now.Sub(t.CreatedAt)
}

// WalletTxStatus is the wallet backend's view of a transaction, reported by
// the status query during reconciliation sweeps.
type WalletTxStatus string

const (
	WalletTxConfirmed  WalletTxStatus = "confirmed"
	WalletTxConfirming WalletTxStatus = "confirming"
	WalletTxCanceled   WalletTxStatus = "canceled"
)

// BankStats is the aggregate view across all users.
type BankStats struct {
	ChargedTotal     int64 `json:"charged_total"` // custodial fees collected
	OpenTransactions int64 `json:"open_transactions"`
	Users            int64 `json:"users"`
}
