package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/compspread/comps-backend/internal/comps"
	"github.com/compspread/comps-backend/internal/models"
)

// ProjectRepo persists saved comps projects. The dataset is stored as a
// JSONB document with the exact wire field names, so a project written by
// the API reads back byte-compatible with the client's local copy.
//
// Schema:
//
//	CREATE TABLE projects (
//	    id         TEXT PRIMARY KEY,
//	    name       TEXT NOT NULL,
//	    data       JSONB NOT NULL DEFAULT '[]',
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

// List returns project summaries, most recently updated first.
func (r *ProjectRepo) List(ctx context.Context) ([]models.ProjectSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, updated_at FROM projects ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProjectSummary
	for rows.Next() {
		var p models.ProjectSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns one project with its dataset, or nil when absent.
func (r *ProjectRepo) Get(ctx context.Context, id string) (*models.Project, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, data, created_at, updated_at FROM projects WHERE id = $1`,
		id,
	)

	var p models.Project
	var data []byte
	err := row.Scan(&p.ID, &p.Name, &data, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err.Error() == "no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &p.Data); err != nil {
		return nil, fmt.Errorf("decode project %s data: %w", id, err)
	}
	return &p, nil
}

// Save upserts a project, replacing its dataset wholesale (last write wins).
func (r *ProjectRepo) Save(ctx context.Context, id, name string, data []comps.MetricRecord) (*models.Project, error) {
	if data == nil {
		data = []comps.MetricRecord{}
	}
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode project %s data: %w", id, err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO projects (id, name, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = NOW()
		 RETURNING id, name, data, created_at, updated_at`,
		id, name, blob,
	)

	var p models.Project
	var stored []byte
	if err := row.Scan(&p.ID, &p.Name, &stored, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stored, &p.Data); err != nil {
		return nil, fmt.Errorf("decode project %s data: %w", id, err)
	}
	return &p, nil
}

// Delete removes a project; found reports whether it existed.
func (r *ProjectRepo) Delete(ctx context.Context, id string) (found bool, err error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
