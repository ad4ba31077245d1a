package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ImageRepository persists ticket images.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) error
	GetByID(ctx context.Context, id int64) (*domain.Image, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Image, error)
	Delete(ctx context.Context, id int64) error
	DeleteByTicket(ctx context.Context, ticketID int64) error
}

type imageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository constructs the repository.
func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepository{pool: pool}
}

func (r *imageRepository) Create(ctx context.Context, image *domain.Image) error {
	const query = `
        INSERT INTO images (ticket_id, file_name, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		image.TicketID,
		image.FileName,
		image.Content,
	).Scan(&image.ID, &image.CreatedAt)
}

func (r *imageRepository) GetByID(ctx context.Context, id int64) (*domain.Image, error) {
	const query = `
        SELECT id, ticket_id, file_name, content, created_at
        FROM images WHERE id=$1`
	var image domain.Image
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&image.ID,
		&image.TicketID,
		&image.FileName,
		&image.Content,
		&image.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Image, error) {
	const query = `
        SELECT id, ticket_id, file_name, content, created_at
        FROM images WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Image
	for rows.Next() {
		var image domain.Image
		if err := rows.Scan(
			&image.ID,
			&image.TicketID,
			&image.FileName,
			&image.Content,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, image)
	}
	return result, rows.Err()
}

func (r *imageRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM images WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *imageRepository) DeleteByTicket(ctx context.Context, ticketID int64) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM images WHERE ticket_id=$1`, ticketID)
	return err
}
