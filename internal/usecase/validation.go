package usecase

import (
	"fmt"
	"math"
	"net/mail"
	"strings"

	"github.com/xavierca1/lead-manager/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors agrupa os erros de campo de uma requisição para o
// handler devolver todos de uma vez no corpo do 400.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.FirstName) == "" {
		errors = append(errors, ValidationError{"first_name", "is required"})
	}
	if strings.TrimSpace(input.LastName) == "" {
		errors = append(errors, ValidationError{"last_name", "is required"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.Source) == "" {
		errors = append(errors, ValidationError{"source", "is required"})
	} else if !entity.IsValidSource(input.Source) {
		errors = append(errors, ValidationError{"source", "must be one of " + strings.Join(entity.LeadSources, ", ")})
	}

	if input.Status != "" && !entity.IsValidStatus(input.Status) {
		errors = append(errors, ValidationError{"status", "must be one of " + strings.Join(entity.LeadStatuses, ", ")})
	}

	if input.Score != nil && (*input.Score < 0 || *input.Score > entity.MaxLeadScore) {
		errors = append(errors, ValidationError{"score", "must be between 0 and 100"})
	}

	if input.LeadValue != nil && *input.LeadValue < 0 {
		errors = append(errors, ValidationError{"lead_value", "must not be negative"})
	}

	return errors
}

// ValidateLeadPatch checa só as chaves presentes no documento. Chave
// desconhecida não é erro: o compilador de patch vai ignorá-la.
func ValidateLeadPatch(patch map[string]any) []ValidationError {
	var errors []ValidationError

	if value, ok := patch["first_name"]; ok {
		if s, ok := asString(value); !ok || strings.TrimSpace(s) == "" {
			errors = append(errors, ValidationError{"first_name", "must be a non-empty string"})
		}
	}
	if value, ok := patch["last_name"]; ok {
		if s, ok := asString(value); !ok || strings.TrimSpace(s) == "" {
			errors = append(errors, ValidationError{"last_name", "must be a non-empty string"})
		}
	}

	if value, ok := patch["email"]; ok {
		s, isString := asString(value)
		if !isString {
			errors = append(errors, ValidationError{"email", "must be a string"})
		} else if _, err := mail.ParseAddress(s); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if value, ok := patch["source"]; ok {
		if s, isString := asString(value); !isString || !entity.IsValidSource(s) {
			errors = append(errors, ValidationError{"source", "must be one of " + strings.Join(entity.LeadSources, ", ")})
		}
	}
	if value, ok := patch["status"]; ok {
		if s, isString := asString(value); !isString || !entity.IsValidStatus(s) {
			errors = append(errors, ValidationError{"status", "must be one of " + strings.Join(entity.LeadStatuses, ", ")})
		}
	}

	if value, ok := patch["score"]; ok {
		if n, isNumber := asNumber(value); !isNumber || n != math.Trunc(n) || n < 0 || n > entity.MaxLeadScore {
			errors = append(errors, ValidationError{"score", "must be an integer between 0 and 100"})
		}
	}

	if value, ok := patch["lead_value"]; ok {
		if n, isNumber := asNumber(value); !isNumber || n < 0 {
			errors = append(errors, ValidationError{"lead_value", "must not be negative"})
		}
	}

	if value, ok := patch["is_qualified"]; ok {
		if _, isBool := value.(bool); !isBool {
			errors = append(errors, ValidationError{"is_qualified", "must be a boolean"})
		}
	}

	return errors
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

// JSON decodificado em map entrega números como float64.
func asNumber(value any) (float64, bool) {
	n, ok := value.(float64)
	return n, ok
}
