package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/query"
)

const leadColumns = `id, user_id, first_name, last_name, email, phone, company, city, state,
		source, status, score, lead_value, last_activity_at, is_qualified, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// List executa o COUNT e o SELECT com o mesmo WHERE dentro de uma
// transação read-only, para total e página descreverem o mesmo snapshot
// mesmo com escrita concorrente.
func (r *LeadRepository) List(ctx context.Context, ownerID string, filters url.Values, page query.Page) (*entity.LeadPage, error) {
	pred := query.OwnerScope(ownerID)
	pred.ApplyFilters(query.LeadFields, filters)

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	countStmt := fmt.Sprintf(`SELECT COUNT(*) FROM leads WHERE %s`, pred.Where())

	var total int
	if err := tx.QueryRowContext(ctx, countStmt, pred.Args()...).Scan(&total); err != nil {
		return nil, err
	}

	listStmt := fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY created_at DESC
		%s
	`, leadColumns, pred.Where(), page.Clause(pred.NextPlaceholder()))

	args := append(pred.Args(), page.Args()...)

	rows, err := tx.QueryContext(ctx, listStmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0, page.Limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &entity.LeadPage{
		Data:       leads,
		Page:       page.Number,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: query.TotalPages(total, page.Limit),
	}, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id, ownerID string) (*entity.Lead, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1 AND user_id = $2`, leadColumns)

	lead, err := scanLead(r.DB.QueryRowContext(ctx, stmt, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	stmt := `
		INSERT INTO leads (
			id, user_id, first_name, last_name, email, phone, company, city, state,
			source, status, score, lead_value, is_qualified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.DB.ExecContext(ctx, stmt,
		lead.ID,
		lead.UserID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		nullString(lead.Phone),
		nullString(lead.Company),
		nullString(lead.City),
		nullString(lead.State),
		lead.Source,
		lead.Status,
		lead.Score,
		lead.LeadValue,
		lead.IsQualified,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		return mapLeadError(err)
	}
	return nil
}

// Update compila o patch e executa um único UPDATE preso por id e dono.
// Zero linhas afetadas = não existe OU não é do chamador; os dois casos
// são deliberadamente o mesmo not-found.
func (r *LeadRepository) Update(ctx context.Context, id, ownerID string, patch map[string]any, now time.Time) (*entity.Lead, error) {
	upd, err := query.CompilePatch(query.LeadFields, patch, now)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf(`UPDATE leads SET %s WHERE %s RETURNING %s`,
		upd.Set(), upd.ScopedBy(id, ownerID), leadColumns)

	lead, err := scanLead(r.DB.QueryRowContext(ctx, stmt, upd.Args()...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, mapLeadError(err)
	}
	return lead, nil
}

func (r *LeadRepository) Delete(ctx context.Context, id, ownerID string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM leads WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// EmailTaken é a pré-checagem de unicidade (global, igual à constraint).
// excludeID vazio cobre o caminho de criação.
func (r *LeadRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	stmt := `SELECT EXISTS (SELECT 1 FROM leads WHERE email = $1)`
	args := []any{email}
	if excludeID != "" {
		stmt = `SELECT EXISTS (SELECT 1 FROM leads WHERE email = $1 AND id <> $2)`
		args = append(args, excludeID)
	}

	var taken bool
	err := r.DB.QueryRowContext(ctx, stmt, args...).Scan(&taken)
	return taken, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var phone, company, city, state sql.NullString
	var lastActivityAt sql.NullTime

	err := row.Scan(
		&lead.ID,
		&lead.UserID,
		&lead.FirstName,
		&lead.LastName,
		&lead.Email,
		&phone,
		&company,
		&city,
		&state,
		&lead.Source,
		&lead.Status,
		&lead.Score,
		&lead.LeadValue,
		&lastActivityAt,
		&lead.IsQualified,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Phone = phone.String
	lead.Company = company.String
	lead.City = city.String
	lead.State = state.String
	if lastActivityAt.Valid {
		lead.LastActivityAt = &lastActivityAt.Time
	}

	return &lead, nil
}

// mapLeadError traduz violação de unicidade (23505) no conflito de
// domínio; qualquer outro erro de banco sobe cru e vira 500 na borda.
func mapLeadError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return entity.ErrEmailAlreadyExists
	}

	log.Printf("Erro crítico no banco: %v", err)
	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
