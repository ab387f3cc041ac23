package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailAlreadyExists = errors.New("lead with this email already exists")
	ErrLeadNotFound       = errors.New("lead not found")
)

// Valores aceitos pelos CHECKs da tabela leads. O compilador de filtros
// não valida contra estas listas: valores fora delas chegam ao banco e
// simplesmente não casam com nenhuma linha.
var (
	LeadSources  = []string{"website", "facebook_ads", "google_ads", "referral", "events", "other"}
	LeadStatuses = []string{"new", "contacted", "qualified", "lost", "won"}
)

const (
	DefaultLeadStatus = "new"
	MaxLeadScore      = 100
)

type Lead struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Company        string     `json:"company,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	Source         string     `json:"source"`
	Status         string     `json:"status"`
	Score          int        `json:"score"`
	LeadValue      float64    `json:"lead_value"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	IsQualified    bool       `json:"is_qualified"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LeadPage é o envelope de listagem paginada.
type LeadPage struct {
	Data       []Lead `json:"data"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// Factory: cria o lead com os defaults de inserção. Campos opcionais
// ficam por conta do chamador.
func NewLead(userID, firstName, lastName, email, source string) *Lead {
	now := time.Now()
	return &Lead{
		ID:        uuid.New().String(),
		UserID:    userID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Source:    source,

		Status:      DefaultLeadStatus,
		Score:       0,
		LeadValue:   0,
		IsQualified: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func IsValidSource(source string) bool {
	return contains(LeadSources, source)
}

func IsValidStatus(status string) bool {
	return contains(LeadStatuses, status)
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
