package consent

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

const recordCols = `id, patient_id, project_id, consent_given, consent_date,
	withdrawal_date, data_retention_months, permissions, gdpr_compliant,
	created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.ProjectID, &rec.ConsentGiven, &rec.ConsentDate,
		&rec.WithdrawalDate, &rec.DataRetentionMonths, &rec.Permissions, &rec.GDPRCompliant,
		&rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consent_records (id, patient_id, project_id, consent_given, consent_date,
			withdrawal_date, data_retention_months, permissions, gdpr_compliant)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.PatientID, rec.ProjectID, rec.ConsentGiven, rec.ConsentDate,
		rec.WithdrawalDate, rec.DataRetentionMonths, rec.Permissions, rec.GDPRCompliant)
	return err
}

func (r *repoPG) GetByPatientAndProject(ctx context.Context, patientID string, projectID uuid.UUID) (*Record, error) {
	return scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM consent_records WHERE patient_id = $1 AND project_id = $2`,
		patientID, projectID))
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE consent_records SET consent_given=$2, consent_date=$3, withdrawal_date=$4,
			data_retention_months=$5, permissions=$6, gdpr_compliant=$7, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.ConsentGiven, rec.ConsentDate, rec.WithdrawalDate,
		rec.DataRetentionMonths, rec.Permissions, rec.GDPRCompliant)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM consent_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM consent_records WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRecords(rows, total)
}

func (r *repoPG) List(ctx context.Context, projectID *uuid.UUID, limit, offset int) ([]*Record, int, error) {
	countQuery := `SELECT COUNT(*) FROM consent_records`
	query := `SELECT ` + recordCols + ` FROM consent_records`
	var countArgs, args []interface{}
	if projectID != nil {
		countQuery += ` WHERE project_id = $1`
		query += ` WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		countArgs = append(countArgs, *projectID)
		args = append(args, *projectID, limit, offset)
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
	return collectRecords(rows, total)
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+` FROM consent_records ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := collectRecords(rows, 0)
	return items, err
}

func (r *repoPG) ListForExport(ctx context.Context, patientID string) ([]*ExportRecord, error) {
	query := `
		SELECT rp.title, p.email, cr.consent_given, cr.consent_date, cr.withdrawal_date, cr.gdpr_compliant
		FROM consent_records cr
		JOIN research_projects rp ON rp.id = cr.project_id
		JOIN profiles p ON p.id = cr.patient_id`
	var args []interface{}
	if patientID != "" {
		query += ` WHERE cr.patient_id = $1`
		args = append(args, patientID)
	}
	query += ` ORDER BY rp.title, p.email`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ExportRecord
	for rows.Next() {
		var e ExportRecord
		if err := rows.Scan(&e.ProjectTitle, &e.PatientEmail, &e.ConsentGiven, &e.ConsentDate, &e.WithdrawalDate, &e.GDPRCompliant); err != nil {
			return nil, err
		}
		items = append(items, &e)
	}
	return items, nil
}

func collectRecords(rows pgx.Rows, total int) ([]*Record, int, error) {
	var items []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, nil
}
