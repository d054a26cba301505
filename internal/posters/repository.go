package posters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-poster/backend/internal/copygen"
	"github.com/campus-poster/backend/internal/models"
)

// ErrNotFound is returned when a poster ID does not exist.
var ErrNotFound = errors.New("poster not found")

// Repository handles poster persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a poster repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const posterColumns = `id, title, time, location, organizer, description, join_url, is_affiliated, copies, copy_source, image_key, created_at, updated_at`

// Create inserts a new poster and fills in ID and timestamps.
func (r *Repository) Create(ctx context.Context, p *models.Poster) error {
	const q = `INSERT INTO posters (title, time, location, organizer, description, join_url, is_affiliated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, p.Title, p.Time, p.Location, p.Organizer, p.Description, p.JoinURL, p.IsAffiliated).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert poster: %w", err)
	}
	return nil
}

// GetByID returns a poster by ID, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Poster, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+posterColumns+` FROM posters WHERE id = $1`, id)
	p, err := scanPoster(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get poster: %w", err)
	}
	return p, nil
}

// List returns the newest posters first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.Poster, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+posterColumns+` FROM posters ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list posters: %w", err)
	}
	defer rows.Close()

	list := make([]models.Poster, 0)
	for rows.Next() {
		p, err := scanPoster(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poster: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// UpdateCopies stores the generated copy as JSON along with the path that produced it.
func (r *Repository) UpdateCopies(ctx context.Context, id uuid.UUID, copies copygen.CopyResult, source copygen.Source) error {
	raw, err := json.Marshal(copies)
	if err != nil {
		return fmt.Errorf("marshal copies: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE posters SET copies = $1, copy_source = $2, updated_at = NOW() WHERE id = $3`, raw, string(source), id)
	if err != nil {
		return fmt.Errorf("update copies: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateImage records the object key of the exported poster image.
func (r *Repository) UpdateImage(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE posters SET image_key = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPoster(row pgx.Row) (*models.Poster, error) {
	var (
		p   models.Poster
		raw []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Time, &p.Location, &p.Organizer, &p.Description, &p.JoinURL,
		&p.IsAffiliated, &raw, &p.CopySource, &p.ImageKey, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Copies = decodeCopies(raw)
	return &p, nil
}

// decodeCopies tolerates rows whose stored copy is missing or unreadable; they read back as nil.
func decodeCopies(raw []byte) *copygen.CopyResult {
	if len(raw) == 0 {
		return nil
	}
	var c copygen.CopyResult
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}
	return &c
}
