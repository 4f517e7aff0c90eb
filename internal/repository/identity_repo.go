package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workload/internal/model"
)

// IdentityRepository persists credentials (email + password hash) and
// user records (role keyed by credential ID). The two tables are
// written separately on purpose: a user-record write failure leaves the
// credential row behind, and the caller decides what to do with that.
type IdentityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewIdentityRepository(db *pgxpool.Pool, logger *zap.Logger) *IdentityRepository {
	return &IdentityRepository{db: db, logger: logger}
}

// CreateCredential inserts a credential and returns its generated ID.
func (r *IdentityRepository) CreateCredential(ctx context.Context, email, passwordHash string) (string, error) {
	query := `
        INSERT INTO credentials (email, password_hash)
        VALUES ($1, $2)
        RETURNING id
    `
	var id string
	err := r.db.QueryRow(ctx, query, email, passwordHash).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert credential",
			zap.Error(err),
			zap.String("email", email),
		)
		return "", err
	}
	return id, nil
}

// FindCredentialByEmail returns the credential for an email.
func (r *IdentityRepository) FindCredentialByEmail(ctx context.Context, email string) (*model.Credential, error) {
	query := `
        SELECT id, email, password_hash, created_at
        FROM credentials
        WHERE email = $1
    `
	var c model.Credential
	err := r.db.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateUser inserts the user record keyed by the credential ID.
func (r *IdentityRepository) CreateUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (id, email, role)
        VALUES ($1, $2, $3)
    `
	_, err := r.db.Exec(ctx, query, u.ID, u.Email, u.Role)
	if err != nil {
		r.logger.Error("Failed to insert user",
			zap.Error(err),
			zap.String("user_id", u.ID),
			zap.String("role", string(u.Role)),
		)
		return err
	}
	r.logger.Info("User created",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)
	return nil
}

// FindUserByID returns the user record, the source of truth for roles.
func (r *IdentityRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
        SELECT id, email, role
        FROM users
        WHERE id = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Role)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListEmployees returns all users with the employee role, for
// populating assignment selectors.
func (r *IdentityRepository) ListEmployees(ctx context.Context) ([]model.User, error) {
	query := `
        SELECT id, email, role
        FROM users
        WHERE role = $1
        ORDER BY email
    `
	rows, err := r.db.Query(ctx, query, model.RoleEmployee)
	if err != nil {
		r.logger.Error("Failed to query employees", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role); err != nil {
			r.logger.Error("Failed to scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
