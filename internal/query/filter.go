package query

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Sufixos de comparação reconhecidos nos parâmetros de consulta.
const (
	suffixContains = "_contains"
	suffixGreater  = "_gt"
	suffixLess     = "_lt"
)

type operator int

const (
	opEquals operator = iota
	opContains
	opGreater
	opLess
)

// Predicate é um fragmento de WHERE com seus parâmetros posicionais.
// Os placeholders $n são numerados sequencialmente a partir de $1 por
// toda condição adicionada, então quem anexa depois (paginação) continua
// a contagem em NextPlaceholder.
type Predicate struct {
	conditions []string
	args       []any
}

// OwnerScope abre o predicado com a condição obrigatória de isolamento
// por dono. Todo read/update/delete nasce aqui; nenhum outro componente
// pode acrescentar condição de user_id por conta própria.
func OwnerScope(ownerID string) *Predicate {
	return &Predicate{
		conditions: []string{"user_id = $1"},
		args:       []any{ownerID},
	}
}

// Where junta as condições com AND. O escopo de dono vem sempre primeiro.
func (p *Predicate) Where() string {
	return strings.Join(p.conditions, " AND ")
}

// Args devolve uma cópia: o chamador costuma dar append dos parâmetros
// de paginação e não pode mexer no slice interno.
func (p *Predicate) Args() []any {
	out := make([]any, len(p.args))
	copy(out, p.args)
	return out
}

// NextPlaceholder é o índice que o próximo valor vinculado vai receber.
func (p *Predicate) NextPlaceholder() int {
	return len(p.args) + 1
}

func (p *Predicate) add(condition string, arg any) {
	p.conditions = append(p.conditions, condition)
	p.args = append(p.args, arg)
}

// ApplyFilters estende o predicado com uma condição por parâmetro
// reconhecido. Chave desconhecida, campo não filtrável ou valor vazio é
// pulado em silêncio: filtragem aqui é leniente por contrato, nunca 400.
// Valores viram sempre parâmetros vinculados, nunca texto no SQL.
func (p *Predicate) ApplyFilters(reg Registry, params url.Values) {
	// Itera em ordem estável para o SQL gerado ser determinístico.
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		values := params[key]
		if len(values) == 0 || values[0] == "" {
			continue
		}

		name, op := splitFilterKey(key)
		spec, ok := reg.Lookup(name)
		if !ok || !spec.Filterable {
			continue
		}

		switch spec.Kind {
		case KindText:
			switch op {
			case opContains:
				p.add(fmt.Sprintf("%s ILIKE $%d", spec.Column, p.NextPlaceholder()), "%"+values[0]+"%")
			case opEquals:
				p.add(fmt.Sprintf("%s = $%d", spec.Column, p.NextPlaceholder()), values[0])
			}

		case KindEnum:
			if op != opEquals {
				continue
			}
			if len(values) > 1 {
				p.add(fmt.Sprintf("%s = ANY($%d)", spec.Column, p.NextPlaceholder()), pq.Array(values))
			} else {
				p.add(fmt.Sprintf("%s = $%d", spec.Column, p.NextPlaceholder()), values[0])
			}

		case KindNumber:
			// Valor não numérico vira NaN e segue para o banco mesmo
			// assim; a falha fica adiada para a execução da query.
			number := parseNumber(values[0])
			switch op {
			case opGreater:
				p.add(fmt.Sprintf("%s > $%d", spec.Column, p.NextPlaceholder()), number)
			case opLess:
				p.add(fmt.Sprintf("%s < $%d", spec.Column, p.NextPlaceholder()), number)
			case opEquals:
				p.add(fmt.Sprintf("%s = $%d", spec.Column, p.NextPlaceholder()), number)
			}

		case KindBool:
			if op != opEquals {
				continue
			}
			// Regra estrita: só a string literal "true" é verdadeira.
			p.add(fmt.Sprintf("%s = $%d", spec.Column, p.NextPlaceholder()), values[0] == "true")
		}
	}
}

// splitFilterKey separa um sufixo de comparação reconhecido do nome base
// do campo. O nome base ainda precisa passar pelo registry, e o sufixo
// só vale para o Kind compatível.
func splitFilterKey(key string) (string, operator) {
	switch {
	case strings.HasSuffix(key, suffixContains):
		return strings.TrimSuffix(key, suffixContains), opContains
	case strings.HasSuffix(key, suffixGreater):
		return strings.TrimSuffix(key, suffixGreater), opGreater
	case strings.HasSuffix(key, suffixLess):
		return strings.TrimSuffix(key, suffixLess), opLess
	}
	return key, opEquals
}

func parseNumber(raw string) float64 {
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return number
}
