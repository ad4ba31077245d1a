package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketReplyRepository manages ticket thread replies.
type TicketReplyRepository interface {
	Create(ctx context.Context, reply *domain.TicketReply) error
	GetByID(ctx context.Context, id int64) (*domain.TicketReply, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketReply, error)
	Delete(ctx context.Context, id int64) error
	DeleteByTicket(ctx context.Context, ticketID int64) error
}

type ticketReplyRepository struct {
	pool *pgxpool.Pool
}

// NewTicketReplyRepository builds the repository.
func NewTicketReplyRepository(pool *pgxpool.Pool) TicketReplyRepository {
	return &ticketReplyRepository{pool: pool}
}

func (r *ticketReplyRepository) Create(ctx context.Context, reply *domain.TicketReply) error {
	const query = `
        INSERT INTO ticket_replies (ticket_id, user_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		reply.TicketID,
		reply.UserID,
		reply.Content,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *ticketReplyRepository) GetByID(ctx context.Context, id int64) (*domain.TicketReply, error) {
	const query = `
        SELECT id, ticket_id, user_id, content, created_at
        FROM ticket_replies WHERE id=$1`
	var reply domain.TicketReply
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&reply.ID,
		&reply.TicketID,
		&reply.UserID,
		&reply.Content,
		&reply.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *ticketReplyRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketReply, error) {
	const query = `
        SELECT id, ticket_id, user_id, content, created_at
        FROM ticket_replies WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketReply
	for rows.Next() {
		var reply domain.TicketReply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.UserID,
			&reply.Content,
			&reply.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}

func (r *ticketReplyRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM ticket_replies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketReplyRepository) DeleteByTicket(ctx context.Context, ticketID int64) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM ticket_replies WHERE ticket_id=$1`, ticketID)
	return err
}
