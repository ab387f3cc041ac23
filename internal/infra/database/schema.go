package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// InitSchema cria as tabelas e índices se ainda não existirem. Sem
// ferramenta de migração: o schema é pequeno e o DDL é idempotente.
func InitSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Os CHECKs de source/status/score são a validação autoritativa:
		// valor fora do enum que escapar da API morre aqui.
		`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(20),
			company VARCHAR(255),
			city VARCHAR(100),
			state VARCHAR(100),
			source VARCHAR(50) CHECK (source IN ('website', 'facebook_ads', 'google_ads', 'referral', 'events', 'other')),
			status VARCHAR(50) DEFAULT 'new' CHECK (status IN ('new', 'contacted', 'qualified', 'lost', 'won')),
			score INTEGER DEFAULT 0 CHECK (score >= 0 AND score <= 100),
			lead_value NUMERIC(10,2) DEFAULT 0,
			last_activity_at TIMESTAMP,
			is_qualified BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_leads_user_id ON leads(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_source ON leads(source)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("falha ao inicializar schema: %w", err)
		}
	}

	log.Println("✅ Tabelas do banco inicializadas")
	return nil
}
