package usecase

// Owner é a identidade resolvida do chamador autenticado; todo acesso a
// lead é limitado ao escopo dela.
type Owner struct {
	ID    string
	Name  string
	Email string
}

// CreateLeadInput: opcionais como ponteiro para distinguir "ausente"
// de zero; ausente recebe default na criação.
type CreateLeadInput struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Company     string   `json:"company"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Source      string   `json:"source"`
	Status      string   `json:"status"`
	Score       *int     `json:"score"`
	LeadValue   *float64 `json:"lead_value"`
	IsQualified *bool    `json:"is_qualified"`
}
