package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ong-shelter-api/internal/domain/volunteers"
)

type VolunteersRepo struct {
	db *sql.DB
}

func NewVolunteersRepo(db *sql.DB) *VolunteersRepo {
	return &VolunteersRepo{db: db}
}

const volunteerColumns = `
	id, name, email, phone, availability, experience, areas, status, created_at`

func (r *VolunteersRepo) Create(ctx context.Context, v volunteers.Volunteer) (volunteers.Volunteer, error) {
	areas, err := json.Marshal(v.Areas)
	if err != nil {
		return volunteers.Volunteer{}, err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO volunteers (
			name, email, phone, availability, experience, areas, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`,
		v.Name, v.Email, v.Phone, v.Availability, v.Experience,
		string(areas), string(v.Status), v.CreatedAt,
	).Scan(&v.ID)
	if err != nil {
		return volunteers.Volunteer{}, err
	}
	return v, nil
}

func (r *VolunteersRepo) List(ctx context.Context, filter volunteers.ListFilter, page volunteers.Page) ([]volunteers.Volunteer, int, error) {
	where := ""
	args := make([]any, 0, 3)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = "WHERE status = $1"
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM volunteers `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, (page.Page-1)*page.Limit)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM volunteers
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, volunteerColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]volunteers.Volunteer, 0)
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *VolunteersRepo) UpdateStatus(ctx context.Context, id int64, status volunteers.Status) (volunteers.Volunteer, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE volunteers
		SET status = $2
		WHERE id = $1
		RETURNING `+volunteerColumns,
		id, string(status),
	)
	v, err := scanVolunteer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return volunteers.Volunteer{}, volunteers.ErrNotFound
		}
		return volunteers.Volunteer{}, err
	}
	return v, nil
}

func (r *VolunteersRepo) CountByStatus(ctx context.Context, status volunteers.Status) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM volunteers WHERE status = $1
	`, string(status)).Scan(&n)
	return n, err
}

func scanVolunteer(row rowScanner) (volunteers.Volunteer, error) {
	var v volunteers.Volunteer
	var areas, status string

	err := row.Scan(
		&v.ID, &v.Name, &v.Email, &v.Phone, &v.Availability,
		&v.Experience, &areas, &status, &v.CreatedAt,
	)
	if err != nil {
		return volunteers.Volunteer{}, err
	}

	v.Status = volunteers.Status(status)
	v.Areas = make([]string, 0)
	if areas != "" {
		// columna TEXT con JSON; un valor corrupto queda como lista vacía
		_ = json.Unmarshal([]byte(areas), &v.Areas)
	}
	return v, nil
}
