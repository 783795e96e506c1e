package handler

import (
	"time"

	"github.com/eventhall/booking-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type loginRequest struct {
	EmailAddress string `json:"email_address" validate:"notblank"`
	Password     string `json:"password"      validate:"notblank"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type registerRequest struct {
	FullName      string `json:"full_name"`
	ContactNumber string `json:"contact_number"`
	EmailAddress  string `json:"email_address"`
	Password      string `json:"password"`
	UserImage     string `json:"user_image,omitempty"`
}

type updateAccountRequest struct {
	FullName      *string `json:"full_name,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	EmailAddress  *string `json:"email_address,omitempty"`
	Password      *string `json:"password,omitempty"`
	UserImage     *string `json:"user_image,omitempty"`
}

type releaseRequest struct {
	Occupation  string `json:"occupation,omitempty"`
	Description string `json:"description,omitempty"`
}

type packageRequest struct {
	Name             string   `json:"package_name"`
	Features         string   `json:"package_features"`
	GeneralPrice     float64  `json:"general_price"`
	PromotionalPrice *float64 `json:"promotional_price,omitempty"`
	IsActive         *bool    `json:"is_active,omitempty"`
}

// --- Views ---

// accountView is the public shape of an Admin or User. It never carries the
// password hash or the refresh token.
type accountView struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	EmailAddress  string    `json:"email_address"`
	ContactNumber string    `json:"contact_number"`
	UserImage     *string   `json:"user_image"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newAccountView(a *domain.Account) accountView {
	return accountView{
		ID:            a.ID,
		FullName:      a.FullName,
		EmailAddress:  a.EmailAddress,
		ContactNumber: a.ContactNumber,
		UserImage:     a.UserImage,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func newAccountViews[P any](items []P, account func(P) *domain.Account) []accountView {
	out := make([]accountView, 0, len(items))
	for _, item := range items {
		out = append(out, newAccountView(account(item)))
	}
	return out
}

type historyView struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	ContactNumber  string    `json:"contact_number"`
	EmailAddress   string    `json:"email_address"`
	UserImage      *string   `json:"user_image"`
	RegisteredDate time.Time `json:"registered_date"`
	ReleaseDate    time.Time `json:"release_date"`
	Occupation     string    `json:"occupation"`
	Description    string    `json:"description"`
	AdminID        string    `json:"admin_id"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newHistoryView(h *domain.EmployeeHistory) historyView {
	return historyView{
		ID:             h.ID,
		FullName:       h.FullName,
		ContactNumber:  h.ContactNumber,
		EmailAddress:   h.EmailAddress,
		UserImage:      h.UserImage,
		RegisteredDate: h.RegisteredDate,
		ReleaseDate:    h.ReleaseDate,
		Occupation:     h.Occupation,
		Description:    h.Description,
		AdminID:        h.AdminID,
		CreatedAt:      h.CreatedAt,
	}
}

type packageView struct {
	ID               string    `json:"id"`
	Name             string    `json:"package_name"`
	Features         string    `json:"package_features"`
	GeneralPrice     float64   `json:"general_price"`
	PromotionalPrice float64   `json:"promotional_price"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func newPackageView(p *domain.Package) packageView {
	return packageView{
		ID:               p.ID,
		Name:             p.Name,
		Features:         p.Features,
		GeneralPrice:     p.GeneralPrice,
		PromotionalPrice: p.PromotionalPrice,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// --- Response types ---

type messageResponse struct {
	Message string `json:"message"`
}

type refreshTokenResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

type adminResponse struct {
	Message       string      `json:"message,omitempty"`
	Administrator accountView `json:"administrator"`
}

type adminSearchResponse struct {
	Count          int           `json:"count"`
	SearchTerm     *string       `json:"search_term"`
	Administrators []accountView `json:"administrators"`
}

type userResponse struct {
	Message string      `json:"message,omitempty"`
	User    accountView `json:"user"`
}

type userSearchResponse struct {
	Count      int           `json:"count"`
	Total      int           `json:"total"`
	SearchTerm *string       `json:"search_term"`
	Users      []accountView `json:"users"`
}

type releaseResponse struct {
	Message string      `json:"message"`
	History historyView `json:"history"`
}

type historySearchResponse struct {
	Count      int           `json:"count"`
	SearchTerm *string       `json:"search_term"`
	Employees  []historyView `json:"employees"`
}

type packageResponse struct {
	Message string      `json:"message"`
	Package packageView `json:"package"`
}

type packageListResponse struct {
	Count    int           `json:"count"`
	Packages []packageView `json:"packages"`
}

func searchTerm(term string) *string {
	if term == "" {
		return nil
	}
	return &term
}
