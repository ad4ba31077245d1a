package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// StatusRepository manages admin-defined ticket statuses. Exactly one row
// has default_status=true; ClearDefault plus Create/Update run inside one
// transaction when the default moves.
type StatusRepository interface {
	Create(ctx context.Context, status *domain.Status) error
	Update(ctx context.Context, status *domain.Status) error
	GetByID(ctx context.Context, id int64) (*domain.Status, error)
	GetDefault(ctx context.Context) (*domain.Status, error)
	List(ctx context.Context) ([]domain.Status, error)
	Delete(ctx context.Context, id int64) error
	ClearDefault(ctx context.Context) error
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository constructs the repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) Create(ctx context.Context, status *domain.Status) error {
	const query = `
        INSERT INTO statuses (name, close_ticket, default_status)
        VALUES ($1,$2,$3)
        RETURNING id`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		status.Name,
		status.CloseTicket,
		status.DefaultStatus,
	).Scan(&status.ID)
}

func (r *statusRepository) Update(ctx context.Context, status *domain.Status) error {
	const query = `
        UPDATE statuses SET name=$1, close_ticket=$2, default_status=$3 WHERE id=$4`
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		status.Name,
		status.CloseTicket,
		status.DefaultStatus,
		status.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *statusRepository) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	const query = `SELECT id, name, close_ticket, default_status FROM statuses WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *statusRepository) GetDefault(ctx context.Context) (*domain.Status, error) {
	const query = `SELECT id, name, close_ticket, default_status FROM statuses WHERE default_status=true`
	var status domain.Status
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query).Scan(
		&status.ID,
		&status.Name,
		&status.CloseTicket,
		&status.DefaultStatus,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Status, error) {
	var status domain.Status
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&status.ID,
		&status.Name,
		&status.CloseTicket,
		&status.DefaultStatus,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) List(ctx context.Context) ([]domain.Status, error) {
	const query = `SELECT id, name, close_ticket, default_status FROM statuses ORDER BY name ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(
			&status.ID,
			&status.Name,
			&status.CloseTicket,
			&status.DefaultStatus,
		); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

func (r *statusRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM statuses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *statusRepository) ClearDefault(ctx context.Context) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `UPDATE statuses SET default_status=false WHERE default_status=true`)
	return err
}
