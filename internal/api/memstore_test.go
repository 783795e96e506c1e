package api

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

// memAccounts is an in-memory ports.AccountRepository used to drive the
// router end to end without MongoDB.
type memAccounts[P any] struct {
	kind    domain.PrincipalKind[P]
	mu      sync.Mutex
	records map[string]domain.Account
	seq     int
}

func newMemAccounts[P any](kind domain.PrincipalKind[P]) *memAccounts[P] {
	return &memAccounts[P]{kind: kind, records: make(map[string]domain.Account)}
}

func (r *memAccounts[P]) first(match func(domain.Account) bool) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if match(a) {
			return r.kind.New(a), nil
		}
	}
	var zero P
	return zero, domain.ErrAccountNotFound
}

func (r *memAccounts[P]) FindByEmail(_ context.Context, email string) (P, error) {
	return r.first(func(a domain.Account) bool { return a.EmailAddress == email })
}

func (r *memAccounts[P]) FindByID(_ context.Context, id string) (P, error) {
	return r.first(func(a domain.Account) bool { return a.ID == id })
}

func (r *memAccounts[P]) FindByRefreshToken(_ context.Context, token string) (P, error) {
	return r.first(func(a domain.Account) bool { return a.RefreshToken != nil && *a.RefreshToken == token })
}

func (r *memAccounts[P]) SetRefreshToken(_ context.Context, id string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.RefreshToken = token
	r.records[id] = a
	return nil
}

func (r *memAccounts[P]) Create(_ context.Context, principal P) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := *r.kind.Account(principal)
	r.seq++
	a.ID = string(r.kind.Role) + "-" + strconv.Itoa(r.seq)
	r.records[a.ID] = a
	return r.kind.New(a), nil
}

func (r *memAccounts[P]) Update(_ context.Context, id string, ch ports.AccountChanges) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok {
		var zero P
		return zero, domain.ErrAccountNotFound
	}
	if ch.FullName != nil {
		a.FullName = *ch.FullName
	}
	if ch.ContactNumber != nil {
		a.ContactNumber = *ch.ContactNumber
	}
	if ch.EmailAddress != nil {
		a.EmailAddress = *ch.EmailAddress
	}
	if ch.PasswordHash != nil {
		a.PasswordHash = *ch.PasswordHash
	}
	if ch.UserImage != nil {
		a.UserImage = ch.UserImage
	}
	r.records[id] = a
	return r.kind.New(a), nil
}

func (r *memAccounts[P]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	ids := make([]string, 0, len(r.records))
	for id, a := range r.records {
		if term == "" || strings.Contains(strings.ToLower(a.FullName+" "+a.ContactNumber+" "+a.EmailAddress), term) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]P, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.kind.New(r.records[id]))
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

type memHistory struct {
	mu      sync.Mutex
	entries []*domain.EmployeeHistory
}

func (r *memHistory) Create(_ context.Context, h *domain.EmployeeHistory) (*domain.EmployeeHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *h
	stored.ID = "history-" + strconv.Itoa(len(r.entries)+1)
	r.entries = append(r.entries, &stored)
	return &stored, nil
}

func (r *memHistory) Search(_ context.Context, term string) ([]*domain.EmployeeHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.EmployeeHistory
	for _, h := range r.entries {
		if term == "" || strings.Contains(strings.ToLower(h.FullName), strings.ToLower(term)) {
			out = append(out, h)
		}
	}
	return out, nil
}

type memPackages struct {
	mu   sync.Mutex
	pkgs map[string]domain.Package
	seq  int
}

func newMemPackages() *memPackages {
	return &memPackages{pkgs: make(map[string]domain.Package)}
}

func (r *memPackages) Create(_ context.Context, p *domain.Package) (*domain.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	stored := *p
	stored.ID = "pkg-" + strconv.Itoa(r.seq)
	r.pkgs[stored.ID] = stored
	return &stored, nil
}

func (r *memPackages) FindByID(_ context.Context, id string) (*domain.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pkgs[id]
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	return &p, nil
}

func (r *memPackages) NameTaken(_ context.Context, name, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.pkgs {
		if p.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPackages) List(context.Context) ([]*domain.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Package, 0, len(r.pkgs))
	for _, p := range r.pkgs {
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPackages) Update(_ context.Context, p *domain.Package) (*domain.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pkgs[p.ID]; !ok {
		return nil, domain.ErrPackageNotFound
	}
	r.pkgs[p.ID] = *p
	stored := *p
	return &stored, nil
}

func (r *memPackages) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pkgs[id]; !ok {
		return domain.ErrPackageNotFound
	}
	delete(r.pkgs, id)
	return nil
}
