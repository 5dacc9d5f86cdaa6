package repos

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"bizbook/internal/domain"
	applog "bizbook/internal/log"
)

var (
	//go:embed schema_sqlite.sql
	sqliteSchema string
	//go:embed schema_postgres.sql
	postgresSchema string
	//go:embed seed.yaml
	seedYAML []byte
)

// BcryptCost is the work factor for admin password hashes.
var BcryptCost = 12

// Schema returns the DDL applied for driver.
func Schema(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "":
		return sqliteSchema, nil
	case "postgres":
		return postgresSchema, nil
	}
	return "", fmt.Errorf("unsupported driver %q", driver)
}

// OpenDB connects, applies the schema and seeds fixture data into an empty store.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = "sqlite"
	}
	schema, err := Schema(driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// One writer; also keeps a :memory: database shared by every query.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if driver == "sqlite" {
		if err := applyPragmas(db, dsn); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := seedIfEmpty(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return db, nil
}

func applyPragmas(db *sqlx.DB, dsn string) error {
	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if !strings.Contains(dsn, ":memory:") {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

type seedData struct {
	Business struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Address     string `yaml:"address"`
		Phone       string `yaml:"phone"`
		Email       string `yaml:"email"`
	} `yaml:"business"`
	Services []struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Price       float64 `yaml:"price"`
		Duration    int     `yaml:"duration"`
	} `yaml:"services"`
}

// seedIfEmpty creates the business row and starter services on a fresh store.
// The business row is what makes the store initialized, so this runs once.
func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM business_details`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var seed seedData
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return err
	}
	if seed.Business.Name == "" {
		return errors.New("seed fixture has no business name")
	}

	applog.Logger().Info("seed: inserting business details and starter services")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	b := seed.Business
	if _, err := tx.Exec(tx.Rebind(`
		INSERT INTO business_details(id, name, description, address, phone, email)
		VALUES (?, ?, ?, ?, ?, ?)`),
		domain.BusinessID, b.Name, b.Description, b.Address, b.Phone, b.Email); err != nil {
		return err
	}
	for _, s := range seed.Services {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO services(name, description, price, duration, active)
			VALUES (?, ?, ?, ?, ?)`),
			s.Name, s.Description, s.Price, s.Duration, true); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SeedAdmin creates the admin account when the username is not taken yet.
// An existing password is never overwritten; use AdminRepo.UpsertAdmin for that.
func SeedAdmin(ctx context.Context, db *sqlx.DB, username, password string) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO admin_users(username, password_hash)
		VALUES (?, ?)
		ON CONFLICT(username) DO NOTHING`), username, string(hash))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}
