package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"
	"github.com/publication-manager/internal/database"
	"github.com/publication-manager/internal/models"
)

// publicationRepo is the concrete implementation of PublicationRepository
type publicationRepo struct {
	db *database.DB
}

// NewPublicationRepo creates a new publication repository
func NewPublicationRepo(db *database.DB) PublicationRepository {
	return &publicationRepo{db: db}
}

// Create inserts a new publication and returns its id
func (r *publicationRepo) Create(ctx context.Context, p *models.Publication) (int64, error) {
	query := `
		INSERT INTO publications (title, type_id, tags, url, published_at, active, body, image_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.Title, p.TypeID, p.Tags, p.URL, p.PublishedAt,
		p.Active, p.Body, nullString(p.ImageLink),
	).Scan(&id)
	if err != nil {
		return 0, describe("insert publication", err)
	}
	return id, nil
}

// Update overwrites an existing publication. published_at and url are left as stored.
func (r *publicationRepo) Update(ctx context.Context, p *models.Publication) error {
	query := `
		UPDATE publications
		SET title = $1, type_id = $2, tags = $3, reviewed_at = $4,
			active = $5, body = $6, image_link = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Title, p.TypeID, p.Tags, p.ReviewedAt,
		p.Active, p.Body, nullString(p.ImageLink), p.ID,
	)
	if err != nil {
		return describe("update publication", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return describe("update publication", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Resource: "publication", Key: strconv.FormatInt(p.ID, 10)}
	}
	return nil
}

// GetByID retrieves a publication by ID
func (r *publicationRepo) GetByID(ctx context.Context, id int64) (*models.Publication, error) {
	query := `
		SELECT id, type_id, title, tags, url, published_at, reviewed_at, active, body, image_link
		FROM publications WHERE id = $1
	`

	var p models.Publication
	var reviewedAt sql.NullTime
	var imageLink sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TypeID, &p.Title, &p.Tags, &p.URL,
		&p.PublishedAt, &reviewedAt, &p.Active, &p.Body, &imageLink,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "publication", Key: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, describe("get publication", err)
	}

	if reviewedAt.Valid {
		p.ReviewedAt = &reviewedAt.Time
	}
	p.ImageLink = imageLink.String

	return &p, nil
}

// ListTitles returns every publication title ordered by title
func (r *publicationRepo) ListTitles(ctx context.Context) ([]models.TitleEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title FROM publications ORDER BY title")
	if err != nil {
		return nil, describe("list titles", err)
	}
	defer rows.Close()

	titles := []models.TitleEntry{}
	for rows.Next() {
		var t models.TitleEntry
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, describe("list titles", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// ListTypes returns the publication types ordered by id
func (r *publicationRepo) ListTypes(ctx context.Context) ([]models.PublicationType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM publication_types ORDER BY id")
	if err != nil {
		return nil, describe("list publication types", err)
	}
	defer rows.Close()

	types := []models.PublicationType{}
	for rows.Next() {
		var t models.PublicationType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, describe("list publication types", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// describe annotates driver errors; constraint violations name the constraint.
func describe(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation", "foreign_key_violation", "not_null_violation", "check_violation":
			return fmt.Errorf("%s: %s on %s: %w", op, pqErr.Code.Name(), pqErr.Constraint, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
