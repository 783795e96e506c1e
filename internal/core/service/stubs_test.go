package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
	"github.com/eventhall/booking-api/internal/infrastructure/security"
)

var errStoreDown = errors.New("store unavailable")

// memAccounts is an in-memory ports.AccountRepository for any principal kind.
type memAccounts[P any] struct {
	kind domain.PrincipalKind[P]

	mu        sync.Mutex
	records   map[string]domain.Account
	seq       int
	deleteErr error
	updateErr error
}

func newMemAccounts[P any](kind domain.PrincipalKind[P]) *memAccounts[P] {
	return &memAccounts[P]{kind: kind, records: make(map[string]domain.Account)}
}

func (r *memAccounts[P]) get(id string) (domain.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	return a, ok
}

func (r *memAccounts[P]) FindByEmail(_ context.Context, email string) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.EmailAddress == email {
			return r.kind.New(a), nil
		}
	}
	var zero P
	return zero, domain.ErrAccountNotFound
}

func (r *memAccounts[P]) FindByID(_ context.Context, id string) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.records[id]; ok {
		return r.kind.New(a), nil
	}
	var zero P
	return zero, domain.ErrAccountNotFound
}

func (r *memAccounts[P]) FindByRefreshToken(_ context.Context, token string) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.RefreshToken != nil && *a.RefreshToken == token {
			return r.kind.New(a), nil
		}
	}
	var zero P
	return zero, domain.ErrAccountNotFound
}

func (r *memAccounts[P]) SetRefreshToken(_ context.Context, id string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if token != nil {
		v := *token
		token = &v
	}
	a.RefreshToken = token
	r.records[id] = a
	return nil
}

func (r *memAccounts[P]) Create(_ context.Context, principal P) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := *r.kind.Account(principal)
	for _, existing := range r.records {
		if existing.EmailAddress == a.EmailAddress {
			var zero P
			return zero, domain.ErrEmailTaken
		}
	}
	r.seq++
	a.ID = "acc-" + strconv.Itoa(r.seq)
	r.records[a.ID] = a
	return r.kind.New(a), nil
}

func (r *memAccounts[P]) Update(_ context.Context, id string, c ports.AccountChanges) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		var zero P
		return zero, r.updateErr
	}
	a, ok := r.records[id]
	if !ok {
		var zero P
		return zero, domain.ErrAccountNotFound
	}
	if c.FullName != nil {
		a.FullName = *c.FullName
	}
	if c.ContactNumber != nil {
		a.ContactNumber = *c.ContactNumber
	}
	if c.EmailAddress != nil {
		a.EmailAddress = *c.EmailAddress
	}
	if c.PasswordHash != nil {
		a.PasswordHash = *c.PasswordHash
	}
	if c.UserImage != nil {
		v := *c.UserImage
		a.UserImage = &v
	}
	r.records[id] = a
	return r.kind.New(a), nil
}

func (r *memAccounts[P]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.records[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memAccounts[P]) Search(_ context.Context, term string) ([]P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	term = strings.ToLower(term)
	var matches []domain.Account
	for _, a := range r.records {
		hay := strings.ToLower(a.FullName + " " + a.ContactNumber + " " + a.EmailAddress)
		if term == "" || strings.Contains(hay, term) {
			matches = append(matches, a)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	out := make([]P, 0, len(matches))
	for _, a := range matches {
		out = append(out, r.kind.New(a))
	}
	return out, nil
}

func (r *memAccounts[P]) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.records {
		if a.EmailAddress == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// seed stores a record with a real bcrypt hash of password.
func (r *memAccounts[P]) seed(t *testing.T, email, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	created, err := r.Create(context.Background(), r.kind.New(domain.Account{
		FullName:      "Seeded " + email,
		ContactNumber: "555-0100",
		EmailAddress:  email,
		PasswordHash:  string(hash),
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return r.kind.Account(created).ID
}

// memImages records image operations without touching the filesystem.
type memImages struct {
	seq     int
	saved   []string
	deleted []string
	saveErr error
}

func (m *memImages) Save(encoded, folder string) (string, error) {
	if strings.TrimSpace(encoded) == "" {
		return "", nil
	}
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.seq++
	p := "/uploads/" + folder + "/img-" + strconv.Itoa(m.seq) + ".png"
	m.saved = append(m.saved, p)
	return p, nil
}

func (m *memImages) Delete(path string) error {
	m.deleted = append(m.deleted, path)
	return nil
}

type memHistory struct {
	entries   []*domain.EmployeeHistory
	createErr error
}

func (h *memHistory) Create(_ context.Context, e *domain.EmployeeHistory) (*domain.EmployeeHistory, error) {
	if h.createErr != nil {
		return nil, h.createErr
	}
	clone := *e
	clone.ID = "hist-" + strconv.Itoa(len(h.entries)+1)
	h.entries = append(h.entries, &clone)
	return &clone, nil
}

func (h *memHistory) Search(_ context.Context, term string) ([]*domain.EmployeeHistory, error) {
	term = strings.ToLower(term)
	var out []*domain.EmployeeHistory
	for _, e := range h.entries {
		hay := strings.ToLower(strings.Join([]string{e.FullName, e.ContactNumber, e.EmailAddress, e.Occupation, e.Description}, " "))
		if term == "" || strings.Contains(hay, term) {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestCodec(t *testing.T) *security.JWTCodec {
	t.Helper()
	codec, err := security.NewJWTCodec(security.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return codec
}

func newTestHasher() *security.BcryptHasher {
	return security.NewBcryptHasher(bcrypt.MinCost)
}

func strPtr(s string) *string { return &s }
