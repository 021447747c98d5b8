// Package memstore is an in-memory implementation of the repository ports for tests.
// Transactions are serialized and roll back to a snapshot when the callback fails.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
)

// Store holds every table. Fail* fields inject errors into the matching writes.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users     map[string]*entity.User
	meds      map[string]*entity.Medication
	events    []*entity.DistributionEvent
	audits    []*entity.AuditLog
	residents map[string]*entity.Resident
	scans     []*entity.ScanLog

	FailEventAppend error
	FailAuditAppend error
	FailScanLog     error
	// FailApplyDelta, when set, is consulted before every ApplyDelta.
	FailApplyDelta func(id string, delta int64) error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:     map[string]*entity.User{},
		meds:      map[string]*entity.Medication{},
		residents: map[string]*entity.Resident{},
	}
}

// AddUser seeds an account.
func (s *Store) AddUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.users[u.ID] = &c
}

// AddMedication seeds an inventory item.
func (s *Store) AddMedication(m *entity.Medication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *m
	s.meds[m.ID] = &c
}

// AddResident seeds a resident.
func (s *Store) AddResident(r *entity.Resident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *r
	s.residents[r.ID] = &c
}

// Medication returns a copy of the stored item, or nil.
func (s *Store) Medication(id string) *entity.Medication {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.meds[id]; ok {
		c := *m
		return &c
	}
	return nil
}

// Events returns every appended distribution event in insertion order.
func (s *Store) Events() []*entity.DistributionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.DistributionEvent, len(s.events))
	for i, e := range s.events {
		c := *e
		out[i] = &c
	}
	return out
}

// AuditLogs returns every audit row in insertion order.
func (s *Store) AuditLogs() []*entity.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.AuditLog(nil), s.audits...)
}

// ScanLogs returns every scan log in insertion order.
func (s *Store) ScanLogs() []*entity.ScanLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.ScanLog(nil), s.scans...)
}

// Users returns the user repository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Medications returns the medication repository outside any transaction.
func (s *Store) Medications() repository.MedicationRepository { return medRepo{s} }

// Distributions returns the distribution event repository.
func (s *Store) Distributions() repository.DistributionRepository { return distRepo{s} }

// Audits returns the audit repository.
func (s *Store) Audits() repository.AuditLogRepository { return auditRepo{s} }

// Residents returns the resident repository.
func (s *Store) Residents() repository.ResidentRepository { return residentRepo{s} }

// Scans returns the scan log repository.
func (s *Store) Scans() repository.ScanLogRepository { return scanRepo{s} }

type snapshot struct {
	meds   map[string]entity.Medication
	events int
	audits int
}

// Run executes fn as one transaction: serialized against other transactions and
// restored to the prior state if fn returns an error.
func (s *Store) Run(ctx context.Context, fn func(
	medRepo repository.MedicationRepository,
	distRepo repository.DistributionRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(medRepo{s}, distRepo{s}, auditRepo{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{meds: make(map[string]entity.Medication, len(s.meds)), events: len(s.events), audits: len(s.audits)}
	for id, m := range s.meds {
		snap.meds[id] = *m
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meds = make(map[string]*entity.Medication, len(snap.meds))
	for id, m := range snap.meds {
		c := m
		s.meds[id] = &c
	}
	s.events = s.events[:snap.events]
	s.audits = s.audits[:snap.audits]
}

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r userRepo) ListAssignedBarangays(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, u := range r.s.users {
		if u.AssignedBarangay != "" {
			out = append(out, u.AssignedBarangay)
		}
	}
	return out, nil
}

type medRepo struct{ s *Store }

func (r medRepo) GetByID(_ context.Context, id string) (*entity.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.meds[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (r medRepo) FindEquivalent(_ context.Context, name, batch, barangay string) (*entity.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m := r.s.findEquivalentLocked(name, batch, barangay); m != nil {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (s *Store) findEquivalentLocked(name, batch, barangay string) *entity.Medication {
	for _, m := range s.meds {
		if m.MedicineName == name && m.BatchNumber == batch && m.Barangay == barangay {
			return m
		}
	}
	return nil
}

func (r medRepo) EnsureEquivalent(_ context.Context, source *entity.Medication, barangay, actorID string) (*entity.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m := r.s.findEquivalentLocked(source.MedicineName, source.BatchNumber, barangay); m != nil {
		c := *m
		return &c, nil
	}
	now := time.Now()
	m := &entity.Medication{
		ID:                uuid.New().String(),
		MedicineName:      source.MedicineName,
		Category:          source.Category,
		BatchNumber:       source.BatchNumber,
		ExpirationDate:    source.ExpirationDate,
		LowStockThreshold: source.LowStockThreshold,
		Barangay:          barangay,
		CreatedBy:         actorID,
		UpdatedBy:         actorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	r.s.meds[m.ID] = m
	c := *m
	return &c, nil
}

func (r medRepo) Create(_ context.Context, m *entity.Medication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.meds[m.ID]; ok {
		return domain.ErrDuplicate
	}
	if r.s.findEquivalentLocked(m.MedicineName, m.BatchNumber, m.Barangay) != nil {
		return domain.ErrDuplicate
	}
	c := *m
	r.s.meds[m.ID] = &c
	return nil
}

func (r medRepo) LockForUpdate(_ context.Context, ids ...string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.s.meds[id]; !ok {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r medRepo) ApplyDelta(_ context.Context, id string, delta int64, actorID string) (*entity.Medication, error) {
	if hook := r.s.FailApplyDelta; hook != nil {
		if err := hook(id, delta); err != nil {
			return nil, err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if m.Quantity+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	m.Quantity += delta
	m.UpdatedBy = actorID
	m.UpdatedAt = time.Now()
	c := *m
	return &c, nil
}

func (r medRepo) Update(_ context.Context, id string, patch entity.MedicationPatch, actorID string) (*entity.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := *m
	if patch.MedicineName != nil {
		next.MedicineName = *patch.MedicineName
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.BatchNumber != nil {
		next.BatchNumber = *patch.BatchNumber
	}
	if patch.ExpirationDate != nil {
		next.ExpirationDate = *patch.ExpirationDate
	}
	if patch.LowStockThreshold != nil {
		next.LowStockThreshold = *patch.LowStockThreshold
	}
	if other := r.s.findEquivalentLocked(next.MedicineName, next.BatchNumber, next.Barangay); other != nil && other.ID != id {
		return nil, domain.ErrDuplicate
	}
	next.UpdatedBy = actorID
	next.UpdatedAt = time.Now()
	*m = next
	c := next
	return &c, nil
}

func (r medRepo) List(_ context.Context, filter repository.MedicationFilter) ([]*entity.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	allowed := toSet(filter.Barangays)
	var out []*entity.Medication
	for _, m := range r.s.meds {
		if allowed != nil {
			if _, ok := allowed[m.Barangay]; !ok {
				continue
			}
		}
		if filter.MedicineName != "" && m.MedicineName != filter.MedicineName {
			continue
		}
		if filter.BatchNumber != "" && m.BatchNumber != filter.BatchNumber {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Barangay != out[j].Barangay {
			return out[i].Barangay < out[j].Barangay
		}
		if out[i].MedicineName != out[j].MedicineName {
			return out[i].MedicineName < out[j].MedicineName
		}
		return out[i].BatchNumber < out[j].BatchNumber
	})
	return out, nil
}

func (r medRepo) ListBarangays(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := map[string]struct{}{}
	for _, m := range r.s.meds {
		if m.Barangay != "" {
			set[m.Barangay] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out, nil
}

type distRepo struct{ s *Store }

func (r distRepo) Append(_ context.Context, e *entity.DistributionEvent) error {
	if r.s.FailEventAppend != nil {
		return r.s.FailEventAppend
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	r.s.events = append(r.s.events, &c)
	return nil
}

func (r distRepo) List(_ context.Context, filter repository.DistributionFilter) ([]*entity.DistributionEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	allowed := toSet(filter.Barangays)
	var out []*entity.DistributionEvent
	for i := len(r.s.events) - 1; i >= 0; i-- {
		e := r.s.events[i]
		if filter.MedicationID != "" && e.MedicationID != filter.MedicationID {
			continue
		}
		if allowed != nil && !eventInScope(e, allowed) {
			continue
		}
		c := *e
		if m, ok := r.s.meds[e.MedicationID]; ok {
			c.MedicineName = m.MedicineName
			c.BatchNumber = m.BatchNumber
		}
		out = append(out, &c)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// eventInScope matches an event touching an allowed barangay; events naming none
// belong to the central supply.
func eventInScope(e *entity.DistributionEvent, allowed map[string]struct{}) bool {
	named := false
	for _, b := range []string{e.Barangay, e.FromBarangay, e.ToBarangay} {
		if b == "" {
			continue
		}
		named = true
		if _, ok := allowed[b]; ok {
			return true
		}
	}
	if !named {
		_, ok := allowed[""]
		return ok
	}
	return false
}

type auditRepo struct{ s *Store }

func (r auditRepo) Append(_ context.Context, a *entity.AuditLog) error {
	if r.s.FailAuditAppend != nil {
		return r.s.FailAuditAppend
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *a
	r.s.audits = append(r.s.audits, &c)
	return nil
}

type residentRepo struct{ s *Store }

func (r residentRepo) GetByID(_ context.Context, id string) (*entity.Resident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if res, ok := r.s.residents[id]; ok {
		c := *res
		return &c, nil
	}
	return nil, nil
}

type scanRepo struct{ s *Store }

func (r scanRepo) Create(_ context.Context, l *entity.ScanLog) error {
	if r.s.FailScanLog != nil {
		return r.s.FailScanLog
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *l
	r.s.scans = append(r.s.scans, &c)
	return nil
}

func (r scanRepo) ListByResident(_ context.Context, residentID string, limit int) ([]*entity.ScanLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ScanLog
	for i := len(r.s.scans) - 1; i >= 0; i-- {
		if r.s.scans[i].ResidentID != residentID {
			continue
		}
		c := *r.s.scans[i]
		out = append(out, &c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func toSet(list []string) map[string]struct{} {
	if list == nil {
		return nil
	}
	set := make(map[string]struct{}, len(list))
	for _, b := range list {
		set[b] = struct{}{}
	}
	return set
}

// SessionStore is an in-memory session store. FailGet injects lookup errors.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
	FailGet  error
}

// NewSessionStore returns an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]entity.Session{}}
}

// Save stores s. ttl is not enforced; expiry is decided by the caller.
func (m *SessionStore) Save(_ context.Context, s *entity.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("memstore: non-positive session ttl")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

// Get returns the session or nil, nil.
func (m *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Delete removes the session if present.
func (m *SessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
