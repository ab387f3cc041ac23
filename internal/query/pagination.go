package query

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page é a janela normalizada de uma listagem.
type Page struct {
	Number int
	Limit  int
}

// Plan normaliza page/limit da requisição. Entrada fora da faixa é
// ajustada, nunca rejeitada: comportamento previsível vale mais que
// rigor aqui.
func Plan(params url.Values) Page {
	page := parseIntDefault(params.Get("page"), DefaultPage)
	if page < 1 {
		page = 1
	}

	limit := parseIntDefault(params.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Page{Number: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Clause continua a sequência de placeholders entregue pelo compilador
// de filtros: next é o índice devolvido por Predicate.NextPlaceholder.
func (p Page) Clause(next int) string {
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", next, next+1)
}

// Args na mesma ordem dos placeholders de Clause.
func (p Page) Args() []any {
	return []any{p.Limit, p.Offset()}
}

// TotalPages é ceil(total/limit); zero quando o conjunto filtrado é vazio.
func TotalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
