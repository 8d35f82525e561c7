package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, employee_name, mobile_number, email, username, password_hash, role, is_active, updated_by, created_at, updated_at`

func scanUser(row pgx.Row) (CatalogUser, error) {
	var i CatalogUser
	err := row.Scan(
		&i.ID,
		&i.EmployeeName,
		&i.MobileNumber,
		&i.Email,
		&i.Username,
		&i.PasswordHash,
		&i.Role,
		&i.IsActive,
		&i.UpdatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectUsers(rows pgx.Rows, err error) ([]CatalogUser, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CatalogUser
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listUsers = `SELECT ` + userColumns + ` FROM catalog.users ORDER BY created_at DESC, id DESC`

func (q *Queries) ListUsers(ctx context.Context) ([]CatalogUser, error) {
	return collectUsers(q.db.Query(ctx, listUsers))
}

const getUserByUsername = `SELECT ` + userColumns + ` FROM catalog.users WHERE username = $1`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (CatalogUser, error) {
	i, err := scanUser(q.db.QueryRow(ctx, getUserByUsername, username))
	return i, notFound(err)
}

const getUser = `SELECT ` + userColumns + ` FROM catalog.users WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, id int64) (CatalogUser, error) {
	i, err := scanUser(q.db.QueryRow(ctx, getUser, id))
	return i, notFound(err)
}

const createUser = `INSERT INTO catalog.users (employee_name, mobile_number, email, username, password_hash, role, updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + userColumns

type CreateUserParams struct {
	EmployeeName string
	MobileNumber string
	Email        string
	Username     string
	PasswordHash string
	Role         string
	UpdatedBy    string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (CatalogUser, error) {
	return scanUser(q.db.QueryRow(ctx, createUser,
		arg.EmployeeName, arg.MobileNumber, arg.Email, arg.Username, arg.PasswordHash, arg.Role, arg.UpdatedBy))
}

// NULL parameters leave the column unchanged.
const updateUser = `UPDATE catalog.users SET
    employee_name = COALESCE($2, employee_name),
    mobile_number = COALESCE($3, mobile_number),
    email         = COALESCE($4, email),
    username      = COALESCE($5, username),
    role          = COALESCE($6, role),
    is_active     = COALESCE($7, is_active),
    password_hash = COALESCE($8, password_hash),
    updated_by    = $9,
    updated_at    = now()
WHERE id = $1
RETURNING ` + userColumns

type UpdateUserParams struct {
	ID           int64
	EmployeeName pgtype.Text
	MobileNumber pgtype.Text
	Email        pgtype.Text
	Username     pgtype.Text
	Role         pgtype.Text
	IsActive     pgtype.Bool
	PasswordHash pgtype.Text
	UpdatedBy    string
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (CatalogUser, error) {
	i, err := scanUser(q.db.QueryRow(ctx, updateUser,
		arg.ID, arg.EmployeeName, arg.MobileNumber, arg.Email, arg.Username,
		arg.Role, arg.IsActive, arg.PasswordHash, arg.UpdatedBy))
	return i, notFound(err)
}

const upsertUser = `INSERT INTO catalog.users (employee_name, mobile_number, email, username, password_hash, role, updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
RETURNING ` + userColumns + `, (xmax = 0) AS inserted`

type UpsertUserRow struct {
	CatalogUser
	Inserted bool
}

// UpsertUser inserts the user or leaves an existing row with the same username untouched.
func (q *Queries) UpsertUser(ctx context.Context, arg CreateUserParams) (UpsertUserRow, error) {
	var i UpsertUserRow
	err := q.db.QueryRow(ctx, upsertUser,
		arg.EmployeeName, arg.MobileNumber, arg.Email, arg.Username, arg.PasswordHash, arg.Role, arg.UpdatedBy,
	).Scan(
		&i.ID,
		&i.EmployeeName,
		&i.MobileNumber,
		&i.Email,
		&i.Username,
		&i.PasswordHash,
		&i.Role,
		&i.IsActive,
		&i.UpdatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Inserted,
	)
	return i, err
}

const listAllUsers = `SELECT ` + userColumns + ` FROM catalog.users ORDER BY id`

func (q *Queries) ListAllUsers(ctx context.Context) ([]CatalogUser, error) {
	return collectUsers(q.db.Query(ctx, listAllUsers))
}
