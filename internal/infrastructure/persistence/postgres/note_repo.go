package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	pkgpostgres "github.com/aniketri/real-insights-data/pkg/postgres"
)

var _ port.NoteRepository = (*NoteRepo)(nil)

const noteColumns = `id, organization_id, loan_id, author_id, author_name, content, created_at, updated_at`

// NoteRepo implements port.NoteRepository.
type NoteRepo struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) *NoteRepo {
	return &NoteRepo{pool: pool}
}

// Save inserts the note or replaces its content.
func (r *NoteRepo) Save(ctx context.Context, n model.Note) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO loan_notes (`+noteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			content    = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at
	`,
		n.ID(), n.OrganizationID(), n.LoanID(), n.AuthorID(), n.AuthorName(), n.Content(),
		n.CreatedAt(), n.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM loan_notes WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (model.Note, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM loan_notes WHERE organization_id = $1 AND id = $2`, orgID, id)
	n, err := scanNoteRow(row)
	if err != nil {
		if pkgpostgres.IsNoRows(err) {
			return model.Note{}, model.ErrNoteNotFound
		}
		return model.Note{}, err
	}
	return n, nil
}

func (r *NoteRepo) ListByLoan(ctx context.Context, orgID, loanID uuid.UUID) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteColumns+`
		FROM loan_notes
		WHERE organization_id = $1 AND loan_id = $2
		ORDER BY created_at DESC, id
	`, orgID, loanID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNoteRow(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func scanNoteRow(row pgx.Row) (model.Note, error) {
	var (
		id, orgID, loanID, authorID uuid.UUID
		authorName, content         string
		createdAt, updatedAt        time.Time
	)
	if err := row.Scan(&id, &orgID, &loanID, &authorID, &authorName, &content, &createdAt, &updatedAt); err != nil {
		return model.Note{}, fmt.Errorf("scan note: %w", err)
	}
	return model.ReconstructNote(id, orgID, loanID, authorID, authorName, content, createdAt, updatedAt), nil
}
