package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	dom "github.com/Crapteep/automation-hub/internal/domain"
	"github.com/Crapteep/automation-hub/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Filter narrows and orders List results. Zero values mean "no filter".
type Filter struct {
	Search      string
	IsActive    *bool
	IsSuperuser *bool
	SortBy      string
	SortOrder   string
	Skip        int
	Limit       int
}

// UserRepo provides user persistence.
type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	List(ctx context.Context, f Filter) ([]dom.User, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
	Update(ctx context.Context, u dom.User) (dom.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Columns List may sort by. Anything else falls back to created_at so the
// filter can never inject SQL.
var sortable = map[string]string{
	"username":   "username",
	"email":      "email",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const userColumns = `id, username, email, hashed_password, is_active, is_superuser, created_at, updated_at`

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByID returns the user with the given ID, or dom.ErrUserNotFound.
func (r *PGUserRepo) GetByID(ctx context.Context, id uuid.UUID) (dom.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername returns the user with the given username, or dom.ErrUserNotFound.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail returns the user with the given email, or dom.ErrUserNotFound.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PGUserRepo) getOne(ctx context.Context, query string, arg any) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.HashedPassword,
		&u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, dom.ErrUserNotFound
		}
		return dom.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List returns a page of users matching f, ordered per f.SortBy/SortOrder.
func (r *PGUserRepo) List(ctx context.Context, f Filter) ([]dom.User, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + userColumns + ` FROM users`)

	var conds []string
	if q := strings.TrimSpace(f.Search); q != "" {
		args = append(args, "%"+q+"%")
		p := "$" + strconv.Itoa(len(args))
		conds = append(conds, "(username ILIKE "+p+" OR email ILIKE "+p+")")
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		conds = append(conds, "is_active = $"+strconv.Itoa(len(args)))
	}
	if f.IsSuperuser != nil {
		args = append(args, *f.IsSuperuser)
		conds = append(conds, "is_superuser = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	col, ok := sortable[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		dir = "DESC"
	}
	sb.WriteString(" ORDER BY " + col + " " + dir)

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, f.Skip)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []dom.User
	for rows.Next() {
		var u dom.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword,
			&u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create inserts a new user and returns it with the generated ID and
// timestamps. Unique-constraint violations surface as domain errors: the
// constraint name tells username and email collisions apart, closing the
// race left open by the service's existence checks.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (username, email, hashed_password, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	var out dom.User
	err := r.db.QueryRow(ctx, query,
		u.Username, u.Email, u.HashedPassword, u.IsActive, u.IsSuperuser,
	).Scan(&out.ID, &out.Username, &out.Email, &out.HashedPassword,
		&out.IsActive, &out.IsSuperuser, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return dom.User{}, mapped
		}
		return dom.User{}, fmt.Errorf("create user: %w", err)
	}
	return out, nil
}

// Update persists all mutable fields of u and refreshes updated_at.
func (r *PGUserRepo) Update(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		UPDATE users
		SET username = $2, email = $3, hashed_password = $4,
		    is_active = $5, is_superuser = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	var out dom.User
	err := r.db.QueryRow(ctx, query,
		u.ID, u.Username, u.Email, u.HashedPassword, u.IsActive, u.IsSuperuser,
	).Scan(&out.ID, &out.Username, &out.Email, &out.HashedPassword,
		&out.IsActive, &out.IsSuperuser, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, dom.ErrUserNotFound
		}
		if mapped := mapUniqueViolation(err); mapped != nil {
			return dom.User{}, mapped
		}
		return dom.User{}, fmt.Errorf("update user: %w", err)
	}
	return out, nil
}

// Delete physically removes the user. Returns false if no row matched.
func (r *PGUserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func mapUniqueViolation(err error) error {
	constraint, ok := utils.PGUniqueViolation(err)
	if !ok {
		return nil
	}
	switch {
	case strings.Contains(constraint, "username"):
		return dom.ErrUsernameTaken
	case strings.Contains(constraint, "email"):
		return dom.ErrEmailTaken
	default:
		return dom.ErrUserAlreadyExists
	}
}
