package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials covers both unknown account and wrong password, so a
// login probe cannot tell the two apart.
var ErrBadCredentials = errors.New("bad credentials")

// Account is the row handed back after a successful login.
type Account struct {
	ID    int64
	Name  string
	Admin bool
}

// AccountRepo handles account rows and password verification.
type AccountRepo struct {
	pool *pgxpool.Pool
	log  *zap.Logger

	// autoCreate makes Authenticate register unknown names on the fly.
	autoCreate bool
}

func NewAccountRepo(pool *pgxpool.Pool, autoCreate bool, log *zap.Logger) *AccountRepo {
	return &AccountRepo{pool: pool, autoCreate: autoCreate, log: log}
}

// Authenticate verifies the password for the named account. With auto-create
// enabled an unknown name becomes a fresh account with the offered password.
func (r *AccountRepo) Authenticate(ctx context.Context, name, password string) (Account, error) {
	var (
		acc  Account
		hash string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, is_admin, password_hash FROM accounts WHERE name = $1`, name,
	).Scan(&acc.ID, &acc.Name, &acc.Admin, &hash)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if !r.autoCreate {
			return Account{}, ErrBadCredentials
		}
		return r.create(ctx, name, password)
	case err != nil:
		return Account{}, fmt.Errorf("look up account %s: %w", name, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Account{}, ErrBadCredentials
	}

	if _, err := r.pool.Exec(ctx,
		`UPDATE accounts SET last_login = now() WHERE id = $1`, acc.ID); err != nil {
		r.log.Warn("last login update failed", zap.String("account", name), zap.Error(err))
	}
	return acc, nil
}

func (r *AccountRepo) create(ctx context.Context, name, password string) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx,
		`INSERT INTO accounts (name, password_hash) VALUES ($1, $2) RETURNING id`,
		name, string(hash),
	).Scan(&id)
	if err != nil {
		return Account{}, fmt.Errorf("create account %s: %w", name, err)
	}

	r.log.Info("account auto-created", zap.String("account", name), zap.Int64("id", id))
	return Account{ID: id, Name: name}, nil
}
