package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNoUpdatableFields: o documento de patch não contribuiu nenhum campo
// atualizável. Os timestamps de sistema não contam para essa checagem.
var ErrNoUpdatableFields = errors.New("no valid fields to update")

// Colunas de auditoria anexadas a todo UPDATE aceito.
const (
	columnUpdatedAt      = "updated_at"
	columnLastActivityAt = "last_activity_at"
)

// Update é uma lista compilada de atribuições `coluna = $n` com seus
// parâmetros, na mesma disciplina de numeração do Predicate.
type Update struct {
	assignments []string
	args        []any
}

// CompilePatch monta o SET a partir de um documento esparso usando só
// campos marcados Updatable; chave ausente fica intocada, chave
// desconhecida é ignorada. Valores (inclusive null explícito) seguem
// como parâmetros vinculados do jeito que vieram: coluna anulável é
// decisão do chamador e do schema, não daqui. No fim anexa os dois
// timestamps de sistema com o mesmo now.
func CompilePatch(reg Registry, doc map[string]any, now time.Time) (*Update, error) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	u := &Update{}
	for _, key := range keys {
		spec, ok := reg.Lookup(key)
		if !ok || !spec.Updatable {
			continue
		}
		u.assign(spec.Column, doc[key])
	}

	if len(u.assignments) == 0 {
		return nil, ErrNoUpdatableFields
	}

	u.assign(columnUpdatedAt, now)
	u.assign(columnLastActivityAt, now)

	return u, nil
}

func (u *Update) assign(column string, value any) {
	u.assignments = append(u.assignments, fmt.Sprintf("%s = $%d", column, len(u.args)+1))
	u.args = append(u.args, value)
}

// Set é o corpo do SET, pronto para interpolar no comando UPDATE.
// Só colunas vindas do registry entram aqui.
func (u *Update) Set() string {
	return strings.Join(u.assignments, ", ")
}

// ScopedBy devolve o WHERE que prende o UPDATE a um registro dentro do
// escopo do dono, continuando a numeração. Id inexistente e id de outro
// dono são indistinguíveis no SQL: ambos afetam zero linhas.
func (u *Update) ScopedBy(id, ownerID string) string {
	where := fmt.Sprintf("id = $%d AND user_id = $%d", len(u.args)+1, len(u.args)+2)
	u.args = append(u.args, id, ownerID)
	return where
}

func (u *Update) Args() []any {
	out := make([]any, len(u.args))
	copy(out, u.args)
	return out
}
