package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"summarization-hub/internal/models"
)

type HistoryRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

const artifactColumns = `id, subject, kind, source, source_title, length_tier, item_count, output, content_chars, created_at`

func (r *HistoryRepo) Insert(ctx context.Context, a *models.Artifact) error {
	query := `INSERT INTO artifacts (` + artifactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Subject, string(a.Kind), string(a.Source), a.SourceTitle,
		string(a.Length), a.ItemCount, a.Output, a.ContentChars, a.CreatedAt,
	)
	return err
}

func (r *HistoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM artifacts WHERE id = $1`

	a, err := scanArtifact(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *HistoryRepo) ListBySubject(ctx context.Context, subject string, limit, offset int) ([]*models.Artifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM artifacts
		WHERE subject = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, subject, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.Artifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func scanArtifact(row pgx.Row) (*models.Artifact, error) {
	var (
		a                    models.Artifact
		kind, source, length string
	)
	err := row.Scan(
		&a.ID, &a.Subject, &kind, &source, &a.SourceTitle,
		&length, &a.ItemCount, &a.Output, &a.ContentChars, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Kind = models.ArtifactKind(kind)
	a.Source = models.SourceKind(source)
	a.Length = models.LengthTier(length)
	return &a, nil
}
