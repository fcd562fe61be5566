package certifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/dbx"
	"github.com/dmitrijs2005/truproof/internal/server/models"
)

// dialect holds the per-driver SQL text and timestamp encoding.
type dialect struct {
	insert     string
	getByID    string
	delete     string
	list       string
	listByVisi string

	timeArg  func(time.Time) any
	timeDest func(*time.Time) any
}

// SQLRepository implements Repository on top of database/sql.
type SQLRepository struct {
	db dbx.DBTX
	q  dialect
}

func (r *SQLRepository) Create(ctx context.Context, c *models.Certification) error {
	_, err := r.db.ExecContext(ctx, r.q.insert,
		c.ID, c.StorageRef, c.OriginalName, c.ContentType, c.Title, c.Description,
		c.NominalDate, c.CodeImage, c.Visibility, r.q.timeArg(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Certification, error) {
	c := &models.Certification{}
	err := r.db.QueryRowContext(ctx, r.q.getByID, id).Scan(
		&c.ID, &c.StorageRef, &c.OriginalName, &c.ContentType, &c.Title, &c.Description,
		&c.NominalDate, &c.CodeImage, &c.Visibility, r.q.timeDest(&c.CreatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.q.delete, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context, visibility string) ([]*models.Certification, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if visibility == "" {
		rows, err = r.db.QueryContext(ctx, r.q.list)
	} else {
		rows, err = r.db.QueryContext(ctx, r.q.listByVisi, visibility)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Certification{}
	for rows.Next() {
		c := &models.Certification{}
		if err := rows.Scan(&c.ID, &c.StorageRef, &c.OriginalName, &c.ContentType, &c.Title,
			&c.Description, &c.NominalDate, &c.Visibility, r.q.timeDest(&c.CreatedAt)); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
