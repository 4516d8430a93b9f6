package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{accounts: make(map[int64]*domain.Account)}
}

func (r *inMemoryLedgerRepo) Initialize(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.UserID]; ok {
		return apperror.ErrLedgerExists(account.UserID)
	}
	cp := *account
	r.accounts[account.UserID] = &cp
	return nil
}

func (r *inMemoryLedgerRepo) Get(ctx context.Context, userID int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[userID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryLedgerRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Account, error) {
	return r.Get(ctx, userID)
}

func (r *inMemoryLedgerRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, userID int64, balance domain.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[userID]
	if !ok {
		return apperror.ErrLedgerNotInitialized(userID)
	}
	a.Balance = balance
	a.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryLedgerRepo) Touch(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[userID]; ok {
		a.LastActivity = time.Now()
	}
	return nil
}

func (r *inMemoryLedgerRepo) List(ctx context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *inMemoryLedgerRepo) Delete(ctx context.Context, tx pgx.Tx, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, userID)
	return nil
}

func (r *inMemoryLedgerRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.accounts)), nil
}

// --- In-Memory Registry Repo ---

type inMemoryRegistryRepo struct {
	mu  sync.RWMutex
	txs map[string]*domain.Transaction
}

func newInMemoryRegistryRepo() *inMemoryRegistryRepo {
	return &inMemoryRegistryRepo{txs: make(map[string]*domain.Transaction)}
}

func (r *inMemoryRegistryRepo) Assign(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[txn.ID]; ok {
		return apperror.ErrAlreadyAssigned(txn.ID)
	}
	cp := *txn
	r.txs[txn.ID] = &cp
	return nil
}

func (r *inMemoryRegistryRepo) Unassign(ctx context.Context, tx pgx.Tx, txID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[txID]; !ok {
		return apperror.ErrUnknownTransaction(txID)
	}
	delete(r.txs, txID)
	return nil
}

func (r *inMemoryRegistryRepo) Get(ctx context.Context, txID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.txs[txID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryRegistryRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, txID string) (*domain.Transaction, error) {
	return r.Get(ctx, txID)
}

func (r *inMemoryRegistryRepo) SetStatus(ctx context.Context, tx pgx.Tx, txID string, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txs[txID]
	if !ok {
		return apperror.ErrUnknownTransaction(txID)
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryRegistryRepo) ListOpen(ctx context.Context) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Transaction, 0, len(r.txs))
	for _, t := range r.txs {
		out = append(out, *t)
	}
	return out, nil
}

func (r *inMemoryRegistryRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, t := range r.txs {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *inMemoryRegistryRepo) CountOpen(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.txs)), nil
}

// backdate shifts a transaction's creation time, for expiry tests.
func (r *inMemoryRegistryRepo) backdate(txID string, age time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.txs[txID]; ok {
		t.CreatedAt = time.Now().Add(-age)
	}
}

// --- In-Memory Consent Repo ---

type inMemoryConsentRepo struct {
	mu       sync.RWMutex
	consents map[int64]*domain.Consent
}

func newInMemoryConsentRepo() *inMemoryConsentRepo {
	return &inMemoryConsentRepo{consents: make(map[int64]*domain.Consent)}
}

func (r *inMemoryConsentRepo) Get(ctx context.Context, userID int64) (*domain.Consent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.consents[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryConsentRepo) SetApproved(ctx context.Context, userID int64, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consents[userID]
	if !ok {
		c = &domain.Consent{UserID: userID, CreatedAt: time.Now()}
		r.consents[userID] = c
	}
	v := version
	c.ApprovedVersion = &v
	c.DeniedVersion = nil
	c.DeniedAt = nil
	c.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryConsentRepo) SetDenied(ctx context.Context, userID int64, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consents[userID]
	if !ok {
		c = &domain.Consent{UserID: userID, CreatedAt: time.Now()}
		r.consents[userID] = c
	}
	v := version
	now := time.Now()
	c.DeniedVersion = &v
	c.DeniedAt = &now
	c.UpdatedAt = now
	return nil
}

func (r *inMemoryConsentRepo) Delete(ctx context.Context, tx pgx.Tx, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.consents, userID)
	return nil
}

// --- In-Memory Bank Repo ---

type inMemoryBankRepo struct {
	mu      sync.Mutex
	charged int64
}

func newInMemoryBankRepo() *inMemoryBankRepo {
	return &inMemoryBankRepo{}
}

func (r *inMemoryBankRepo) AddCharged(ctx context.Context, tx pgx.Tx, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charged += amount
	return nil
}

func (r *inMemoryBankRepo) ChargedTotal(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.charged, nil
}

// --- In-Memory Transactor ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

// --- Scripted Wallet Backend ---

type walletTx struct {
	status domain.WalletTxStatus
	kind   domain.OperationKind
	amount int64
}

// fakeWallet is a scripted stand-in for the grin-wallet owner API. Slates
// produced by it carry predictable ids; tests register decode results and
// flip transaction statuses to drive the sweeps.
type fakeWallet struct {
	mu       sync.Mutex
	notReady error
	nextID   int
	txs      map[string]walletTx
	slates   map[string]*domain.Slate
	released []string
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		txs:    make(map[string]walletTx),
		slates: make(map[string]*domain.Slate),
	}
}

func (w *fakeWallet) newTx(kind domain.OperationKind, amount int64) string {
	w.nextID++
	id := fmt.Sprintf("slate-%04d", w.nextID)
	w.txs[id] = walletTx{status: domain.WalletTxConfirming, kind: kind, amount: amount}
	return id
}

func (w *fakeWallet) Sync(ctx context.Context) error { return nil }

func (w *fakeWallet) IsReady(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notReady
}

func (w *fakeWallet) Send(ctx context.Context, amount int64, dest string) (string, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.newTx(domain.OperationWithdraw, amount)
	return fmt.Sprintf("BEGINSLATEPACK send:%s ENDSLATEPACK", id), id, nil
}

func (w *fakeWallet) Invoice(ctx context.Context, amount int64, dest string) (string, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.newTx(domain.OperationDeposit, amount)
	return fmt.Sprintf("BEGINSLATEPACK invoice:%s ENDSLATEPACK", id), id, nil
}

func (w *fakeWallet) Receive(ctx context.Context, slatepack string) (string, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	slate, ok := w.slates[slatepack]
	if !ok {
		return "", "", apperror.ErrWalletFailure("receive", fmt.Errorf("unknown slatepack"))
	}
	w.txs[slate.ID] = walletTx{status: domain.WalletTxConfirming, kind: domain.OperationDeposit, amount: slate.Amount}
	return fmt.Sprintf("BEGINSLATEPACK response:%s ENDSLATEPACK", slate.ID), slate.ID, nil
}

func (w *fakeWallet) Finalize(ctx context.Context, slatepack string) (string, error) {
	return "BEGINSLATEPACK final ENDSLATEPACK", nil
}

func (w *fakeWallet) ReleaseLock(ctx context.Context, txID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.released = append(w.released, txID)
	if t, ok := w.txs[txID]; ok {
		t.status = domain.WalletTxCanceled
		w.txs[txID] = t
	}
	return nil
}

func (w *fakeWallet) DecodeSlatepack(ctx context.Context, slatepack string) (*domain.Slate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	slate, ok := w.slates[slatepack]
	if !ok {
		return nil, apperror.ErrWalletFailure("decode", fmt.Errorf("unknown slatepack"))
	}
	cp := *slate
	return &cp, nil
}

func (w *fakeWallet) QueryStatus(ctx context.Context, txID string) (domain.WalletTxStatus, domain.OperationKind, int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.txs[txID]
	if !ok {
		return "", "", 0, apperror.ErrUnknownTransaction(txID)
	}
	return t.status, t.kind, t.amount, nil
}

// registerSlate scripts the decode result for a slatepack the test pastes.
func (w *fakeWallet) registerSlate(pack string, slate *domain.Slate) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.slates[pack] = slate
}

// setStatus scripts the chain view of a transaction for the next sweep.
func (w *fakeWallet) setStatus(txID string, status domain.WalletTxStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := w.txs[txID]
	t.status = status
	w.txs[txID] = t
}

// setDebited overrides the wallet-reported amount, simulating the network
// fee added on top of a withdrawal.
func (w *fakeWallet) setDebited(txID string, amount int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := w.txs[txID]
	t.amount = amount
	w.txs[txID] = t
}

// --- Recording Notifier ---

type recordingNotifier struct {
	mu       sync.Mutex
	messages map[int64][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: make(map[int64][]string)}
}

func (n *recordingNotifier) Notify(ctx context.Context, userID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[userID] = append(n.messages[userID], text)
	return nil
}

func (n *recordingNotifier) sent(userID int64) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages[userID]...)
}
