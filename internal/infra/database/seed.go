package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/lead-manager/internal/entity"
)

// Fixture de demonstração: um usuário de teste e ~100 leads aleatórios.
// Ligada por SEED=true; roda de novo sem duplicar nada.

const (
	seedEmail    = "test@example.com"
	seedPassword = "password123"
	seedTarget   = 100
)

var (
	seedCompanies = []string{
		"TechCorp", "DataSoft", "CloudSys", "InfoTech", "WebPro", "AppDev", "DigitalMax",
		"InnovateLab", "SmartSolutions", "NextGen Tech", "Future Systems", "Prime Digital",
	}
	seedCities = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose"}
	seedStates = []string{"NY", "CA", "IL", "TX", "AZ", "PA", "FL", "OH", "NC", "GA"}

	seedFirstNames = []string{"John", "Jane", "Mike", "Sarah", "David", "Lisa", "Chris", "Emma", "Ryan", "Ashley", "Kevin", "Nicole", "Brian", "Jessica", "Matt"}
	seedLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzales"}
)

// PasswordHasher evita importar o pacote de auth aqui; o main injeta o
// hasher real.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

func Seed(ctx context.Context, db *sql.DB, hasher PasswordHasher) error {
	userID, err := seedUser(ctx, db, hasher)
	if err != nil {
		return err
	}

	var existing int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE user_id = $1`, userID).Scan(&existing)
	if err != nil {
		return err
	}
	if existing >= seedTarget {
		log.Println("✅ Base já tem leads suficientes, pulando seed")
		return nil
	}

	toGenerate := seedTarget - existing
	log.Printf("Gerando %d leads...", toGenerate)

	if err := seedLeads(ctx, db, userID, existing, toGenerate); err != nil {
		return err
	}

	log.Printf("✅ %d leads inseridos", toGenerate)
	log.Printf("📧 Login: %s / %s", seedEmail, seedPassword)
	return nil
}

func seedUser(ctx context.Context, db *sql.DB, hasher PasswordHasher) (string, error) {
	var userID string
	err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, seedEmail).Scan(&userID)
	if err == nil {
		log.Println("✅ Usuário de teste já existe")
		return userID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return "", err
	}

	user := entity.NewUser(seedEmail, hash, "Test", "User")
	err = db.QueryRowContext(ctx,
		`INSERT INTO users (id, email, password, first_name, last_name) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
	).Scan(&userID)
	if err != nil {
		return "", err
	}

	log.Println("✅ Usuário de teste criado")
	return userID, nil
}

func seedLeads(ctx context.Context, db *sql.DB, userID string, offset, count int) error {
	const batchSize = 50
	const fieldsPerLead = 15

	for start := 0; start < count; start += batchSize {
		size := batchSize
		if start+size > count {
			size = count - start
		}

		placeholders := make([]string, 0, size)
		args := make([]any, 0, size*fieldsPerLead)

		for i := 0; i < size; i++ {
			firstName := pick(seedFirstNames)
			lastName := pick(seedLastNames)
			email := fmt.Sprintf("%s.%s%d@example.com",
				strings.ToLower(firstName), strings.ToLower(lastName), offset+start+i)

			base := len(args)
			marks := make([]string, fieldsPerLead)
			for j := range marks {
				marks[j] = fmt.Sprintf("$%d", base+j+1)
			}
			placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")

			args = append(args,
				uuid.New().String(),
				userID,
				firstName,
				lastName,
				email,
				fmt.Sprintf("+1%d%d%d", randomBetween(200, 999), randomBetween(100, 999), randomBetween(1000, 9999)),
				pick(seedCompanies),
				pick(seedCities),
				pick(seedStates),
				pick(entity.LeadSources),
				pick(entity.LeadStatuses),
				randomBetween(0, entity.MaxLeadScore),
				float64(randomBetween(10000, 5000000))/100,
				time.Now().Add(-time.Duration(randomBetween(0, 30))*24*time.Hour),
				rand.Float64() > 0.7,
			)
		}

		stmt := fmt.Sprintf(`
			INSERT INTO leads (
				id, user_id, first_name, last_name, email, phone, company, city, state,
				source, status, score, lead_value, last_activity_at, is_qualified
			) VALUES %s
			ON CONFLICT (email) DO NOTHING
		`, strings.Join(placeholders, ", "))

		if _, err := db.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}

	return nil
}

func pick(list []string) string {
	return list[rand.Intn(len(list))]
}

func randomBetween(min, max int) int {
	return rand.Intn(max-min+1) + min
}
