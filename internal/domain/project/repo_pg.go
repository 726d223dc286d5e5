package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consentd/consentd/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const projectCols = `id, title, description, principal_investigator, institution,
	data_types, purpose, duration_months, status, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.PrincipalInvestigator, &p.Institution,
		&p.DataTypes, &p.Purpose, &p.DurationMonths, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Project) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO research_projects (id, title, description, principal_investigator,
			institution, data_types, purpose, duration_months, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Title, p.Description, p.PrincipalInvestigator,
		p.Institution, p.DataTypes, p.Purpose, p.DurationMonths, p.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	return scanProject(r.conn(ctx).QueryRow(ctx, `SELECT `+projectCols+` FROM research_projects WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Project) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE research_projects SET title=$2, description=$3, principal_investigator=$4,
			institution=$5, data_types=$6, purpose=$7, duration_months=$8, status=$9,
			updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Title, p.Description, p.PrincipalInvestigator,
		p.Institution, p.DataTypes, p.Purpose, p.DurationMonths, p.Status)
	return err
}

func (r *repoPG) List(ctx context.Context, status string, limit, offset int) ([]*Project, int, error) {
	countQuery := `SELECT COUNT(*) FROM research_projects`
	query := `SELECT ` + projectCols + ` FROM research_projects`
	var countArgs, args []interface{}
	if status != "" {
		countQuery += ` WHERE status = $1`
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		countArgs = append(countArgs, status)
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Project, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+projectCols+` FROM research_projects ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}
