package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories for the service tests. They honor the same error
// contract as the real ones: plain finds return gorm.ErrRecordNotFound raw,
// Lock* methods return translated errors, and row contention surfaces as the
// same SQLSTATE Postgres would raise under FOR UPDATE NOWAIT.

func errRowLocked() error {
	return repository.Translate(&pgconn.PgError{Code: "55P03"})
}

// ── Terminals ─────────────────────────────────────────────────────────────────

type fakeTerminalRepo struct {
	mu        sync.Mutex
	terminals map[uuid.UUID]*model.Terminal
	// nowait simulates row-lock contention: when enabled, LockByID marks the
	// row held and fails while another caller holds it. Locks are never
	// released, which is enough for single-shot race tests.
	nowait bool
	held   map[uuid.UUID]bool
}

func newFakeTerminalRepo() *fakeTerminalRepo {
	return &fakeTerminalRepo{
		terminals: make(map[uuid.UUID]*model.Terminal),
		held:      make(map[uuid.UUID]bool),
	}
}

func (r *fakeTerminalRepo) CreateTx(_ context.Context, _ *gorm.DB, t *model.Terminal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.terminals[t.ID] = &cp
	return nil
}

func (r *fakeTerminalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Terminal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.terminals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTerminalRepo) ListBySucursal(_ context.Context, sucursalID uuid.UUID) ([]model.Terminal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Terminal
	for _, t := range r.terminals {
		if t.Status == model.TerminalDeleted {
			continue
		}
		if sucursalID != uuid.Nil && t.SucursalID != sucursalID {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTerminalRepo) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Terminal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.terminals[id]
	if !ok {
		return nil, repository.Translate(gorm.ErrRecordNotFound)
	}
	if r.nowait {
		if r.held[id] {
			return nil, errRowLocked()
		}
		r.held[id] = true
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTerminalRepo) UpdateTx(_ context.Context, _ *gorm.DB, t *model.Terminal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.terminals[t.ID] = &cp
	return nil
}

func (r *fakeTerminalRepo) UpdateFields(_ context.Context, id uuid.UUID, updates map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(updates) == 0 {
		return nil
	}
	t, ok := r.terminals[id]
	if !ok || t.Status == model.TerminalDeleted {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		t.Name = name
	}
	if status, ok := updates["status"].(string); ok {
		t.Status = status
	}
	return nil
}

func (r *fakeTerminalRepo) DB() *gorm.DB { return nil }

var _ repository.TerminalRepository = (*fakeTerminalRepo)(nil)

// ── Sessions ──────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.Session)}
}

func (r *fakeSessionRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) FindOpenByTerminalUser(_ context.Context, _ *gorm.DB, terminalID, userID uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.TerminalID == terminalID && s.UserID == userID && s.Status == model.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) FindOpenByTerminal(_ context.Context, terminalID uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.TerminalID == terminalID && s.Status == model.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) FindOpenByUserElsewhere(_ context.Context, _ *gorm.DB, userID, exceptTerminalID uuid.UUID) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Session
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == model.SessionOpen && s.TerminalID != exceptTerminalID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) LockOpenByTerminal(_ context.Context, _ *gorm.DB, terminalID uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.TerminalID == terminalID && s.Status == model.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.Translate(gorm.ErrRecordNotFound)
}

func (r *fakeSessionRepo) UpdateTx(_ context.Context, _ *gorm.DB, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) UpdateReportPath(_ context.Context, id uuid.UUID, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p := path
	s.ReportPath = &p
	return nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) open() []model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Session
	for _, s := range r.sessions {
		if s.Status == model.SessionOpen {
			out = append(out, *s)
		}
	}
	return out
}

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

// ── Cash movements ────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []model.CashMovement
}

func (r *fakeMovementRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.CashMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.SessionID != nil && *m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ExpectedCashBySession(_ context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for i := range r.movements {
		m := &r.movements[i]
		if m.SessionID == nil || *m.SessionID != sessionID {
			continue
		}
		switch m.Type {
		case model.MovementRefund:
			total = total.Sub(m.Amount)
		case model.MovementCloseCount:
			// Declared figure, not a delta.
		default:
			total = total.Add(m.Amount)
		}
	}
	return total, nil
}

func (r *fakeMovementRepo) byType(movType string) []model.CashMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.Type == movType {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.CashMovementRepository = (*fakeMovementRepo)(nil)

// ── Cash remittances ──────────────────────────────────────────────────────────

type fakeRemitRepo struct {
	mu     sync.Mutex
	remits map[uuid.UUID]*model.CashRemittance
}

func newFakeRemitRepo() *fakeRemitRepo {
	return &fakeRemitRepo{remits: make(map[uuid.UUID]*model.CashRemittance)}
}

func (r *fakeRemitRepo) CreateTx(_ context.Context, _ *gorm.DB, rem *model.CashRemittance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rem.ID == uuid.Nil {
		rem.ID = uuid.New()
	}
	rem.CreatedAt = time.Now()
	cp := *rem
	r.remits[rem.ID] = &cp
	return nil
}

func (r *fakeRemitRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRemittance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.remits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rem
	return &cp, nil
}

func (r *fakeRemitRepo) ListPending(_ context.Context, sucursalID uuid.UUID) ([]model.CashRemittance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CashRemittance
	for _, rem := range r.remits {
		if rem.Status != model.RemittancePending {
			continue
		}
		if sucursalID != uuid.Nil && rem.SucursalID != sucursalID {
			continue
		}
		out = append(out, *rem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRemitRepo) ListPendingOlderThan(_ context.Context, age time.Duration) ([]model.CashRemittance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-age)
	var out []model.CashRemittance
	for _, rem := range r.remits {
		if rem.Status == model.RemittancePending && rem.CreatedAt.Before(cutoff) {
			out = append(out, *rem)
		}
	}
	return out, nil
}

func (r *fakeRemitRepo) Settle(_ context.Context, id, supervisorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.remits[id]
	if !ok || rem.Status != model.RemittancePending {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	rem.Status = model.RemittanceSettled
	rem.SettledBy = &supervisorID
	rem.SettledAt = &now
	return nil
}

var _ repository.CashRemittanceRepository = (*fakeRemitRepo)(nil)

// ── Users ─────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) add(u model.User) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := u
	r.users[u.ID] = &cp
	return &cp
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"}
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindActiveByRoles(_ context.Context, roles []string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if !u.Active {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				out = append(out, *u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = active
	return nil
}

func (r *fakeUserRepo) UpdateStepUp(_ context.Context, id uuid.UUID, failures int, lockedUntil *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FailedPINAttempts = failures
	u.LockedUntil = lockedUntil
	return nil
}

func (r *fakeUserRepo) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.Translate(gorm.ErrRecordNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateTx(_ context.Context, _ *gorm.DB, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) DB() *gorm.DB { return nil }

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// ── Audit ─────────────────────────────────────────────────────────────────────

type fakeAuditRepo struct {
	mu      sync.Mutex
	records []model.AuditRecord
	// failErr, when set, makes every CreateTx fail. Used to verify the
	// mandatory/best-effort split in the recorder.
	failErr error
}

func (r *fakeAuditRepo) CreateTx(_ context.Context, _ *gorm.DB, rec *model.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, filter repository.AuditFilter) ([]model.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditRecord
	for _, rec := range r.records {
		if filter.UserID != uuid.Nil && rec.UserID != filter.UserID {
			continue
		}
		if filter.EntityType != "" && rec.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != uuid.Nil && rec.EntityID != filter.EntityID {
			continue
		}
		if filter.ActionCode != "" && rec.ActionCode != filter.ActionCode {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *fakeAuditRepo) byAction(action string) []model.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditRecord
	for _, rec := range r.records {
		if rec.ActionCode == action {
			out = append(out, rec)
		}
	}
	return out
}

func (r *fakeAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

// ── Sucursales ────────────────────────────────────────────────────────────────

type fakeSucursalRepo struct {
	mu         sync.Mutex
	sucursales map[uuid.UUID]*model.Sucursal
}

func newFakeSucursalRepo() *fakeSucursalRepo {
	return &fakeSucursalRepo{sucursales: make(map[uuid.UUID]*model.Sucursal)}
}

func (r *fakeSucursalRepo) Create(_ context.Context, s *model.Sucursal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sucursales {
		if existing.Code == s.Code {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sucursales[s.ID] = &cp
	return nil
}

func (r *fakeSucursalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sucursales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSucursalRepo) List(_ context.Context) ([]model.Sucursal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sucursal
	for _, s := range r.sucursales {
		if s.Active {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

var _ repository.SucursalRepository = (*fakeSucursalRepo)(nil)

// ── Products and price history ────────────────────────────────────────────────

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	nowait   bool
	held     map[uuid.UUID]bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		held:     make(map[uuid.UUID]bool),
	}
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) Search(_ context.Context, term string, limit int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProductRepo) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.Translate(gorm.ErrRecordNotFound)
	}
	if r.nowait {
		if r.held[id] {
			return nil, errRowLocked()
		}
		r.held[id] = true
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) UpdatePriceTx(_ context.Context, _ *gorm.DB, id uuid.UUID, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Price = price
	return nil
}

func (r *fakeProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

type fakePriceChangeRepo struct {
	mu      sync.Mutex
	changes []model.PriceChange
}

func (r *fakePriceChangeRepo) CreateTx(_ context.Context, _ *gorm.DB, pc *model.PriceChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pc.ID == uuid.Nil {
		pc.ID = uuid.New()
	}
	pc.CreatedAt = time.Now()
	r.changes = append(r.changes, *pc)
	return nil
}

func (r *fakePriceChangeRepo) ListByProduct(_ context.Context, productID uuid.UUID, limit int) ([]model.PriceChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PriceChange
	for i := len(r.changes) - 1; i >= 0; i-- {
		if r.changes[i].ProductID == productID {
			out = append(out, r.changes[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePriceChangeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

var _ repository.PriceChangeRepository = (*fakePriceChangeRepo)(nil)

// ── Collaborator stubs ────────────────────────────────────────────────────────

type stubAuthorizer struct {
	user  *model.User
	err   error
	calls int
}

func (a *stubAuthorizer) Authorize(_ context.Context, _ string, _ []string) (*model.User, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.user, nil
}

var _ Authorizer = (*stubAuthorizer)(nil)

type recordingNotifier struct {
	mu         sync.Mutex
	autoClosed []model.Session
	forced     []model.Session
}

func (n *recordingNotifier) SessionAutoClosed(_ context.Context, sess model.Session) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.autoClosed = append(n.autoClosed, sess)
}

func (n *recordingNotifier) SessionForceClosed(_ context.Context, sess model.Session, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.forced = append(n.forced, sess)
}

var _ Notifier = (*recordingNotifier)(nil)
