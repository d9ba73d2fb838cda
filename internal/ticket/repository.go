package ticket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/MdAyanBadar/mini-auth-project/internal/database"
)

var (
	ErrNotFound        = errors.New("ticket not found")
	ErrAlreadyResolved = errors.New("ticket is already resolved")
)

// Repository handles ticket data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// ticketRow is the shape of a list query result including the joined
// creator columns.
type ticketRow struct {
	ID          int64          `bun:"id"`
	Title       string         `bun:"title"`
	Description string         `bun:"description"`
	Status      string         `bun:"status"`
	CreatedAt   time.Time      `bun:"created_at"`
	ResolvedAt  *time.Time     `bun:"resolved_at"`
	UserName    sql.NullString `bun:"user_name"`
	UserEmail   sql.NullString `bun:"user_email"`
}

// List returns all tickets, newest first, with the creator's name and email.
func (r *Repository) List(ctx context.Context) ([]Ticket, error) {
	var rows []ticketRow
	err := r.db.NewSelect().
		TableExpr("tickets AS t").
		ColumnExpr("t.id, t.title, t.description, t.status, t.created_at, t.resolved_at").
		ColumnExpr("u.name AS user_name, u.email AS user_email").
		Join("LEFT JOIN users AS u ON u.id = t.user_id").
		OrderExpr("t.created_at DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, Ticket{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Status:      row.Status,
			CreatedAt:   row.CreatedAt,
			ResolvedAt:  row.ResolvedAt,
			UserName:    row.UserName.String,
			UserEmail:   row.UserEmail.String,
		})
	}

	return tickets, nil
}

// Create inserts a new open ticket for the given user.
func (r *Repository) Create(ctx context.Context, userID int64, title, description string) (*Ticket, error) {
	dbTicket := &database.Ticket{
		Title:       title,
		Description: description,
		Status:      StatusOpen,
		UserID:      userID,
	}

	_, err := r.db.NewInsert().
		Model(dbTicket).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return mapDBTicketToModel(dbTicket), nil
}

// Resolve marks an open ticket as resolved. Resolving a ticket that is
// already resolved fails with ErrAlreadyResolved.
func (r *Repository) Resolve(ctx context.Context, id int64) (*Ticket, error) {
	dbTicket := new(database.Ticket)
	err := r.db.NewSelect().
		Model(dbTicket).
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	if dbTicket.Status == StatusResolved {
		return nil, ErrAlreadyResolved
	}

	now := time.Now()
	dbTicket.Status = StatusResolved
	dbTicket.ResolvedAt = &now

	_, err = r.db.NewUpdate().
		Model(dbTicket).
		Column("status", "resolved_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ticket: %w", err)
	}

	return mapDBTicketToModel(dbTicket), nil
}

// mapDBTicketToModel converts database model to domain model
func mapDBTicketToModel(dbt *database.Ticket) *Ticket {
	return &Ticket{
		ID:          dbt.ID,
		Title:       dbt.Title,
		Description: dbt.Description,
		Status:      dbt.Status,
		UserID:      dbt.UserID,
		CreatedAt:   dbt.CreatedAt,
		ResolvedAt:  dbt.ResolvedAt,
	}
}
