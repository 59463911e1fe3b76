package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"ong-shelter-api/internal/domain/adoptions"
	"ong-shelter-api/internal/domain/dogs"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

const adoptionColumns = `
	a.id, a.dog_id, a.name, a.email, a.phone, a.address,
	a.experience, a.reason, a.status, a.rejection_reason,
	a.created_at, a.updated_at`

// adoptionJoined agrega la vista del animal. El LEFT JOIN conserva
// solicitudes cuyo animal fue borrado del catálogo.
const adoptionJoined = adoptionColumns + `,
	d.name, d.available, d.status, d.legacy_images`

func (r *AdoptionsRepo) Create(ctx context.Context, a adoptions.AdoptionRequest) (adoptions.AdoptionRequest, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO adoptions (
			dog_id, name, email, phone, address,
			experience, reason, status, rejection_reason,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`,
		a.DogID, a.Name, a.Email, a.Phone, a.Address,
		a.Experience, a.Reason, string(a.Status), a.RejectionReason,
		a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return adoptions.AdoptionRequest{}, err
	}
	return r.GetByIDWithDog(ctx, a.ID)
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id int64) (adoptions.AdoptionRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+adoptionColumns+`
		FROM adoptions a
		WHERE a.id = $1
	`, id)

	a, err := scanAdoption(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return adoptions.AdoptionRequest{}, adoptions.ErrNotFound
		}
		return adoptions.AdoptionRequest{}, err
	}
	return a, nil
}

func (r *AdoptionsRepo) GetByIDWithDog(ctx context.Context, id int64) (adoptions.AdoptionRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+adoptionJoined+`
		FROM adoptions a
		LEFT JOIN dogs d ON d.id = a.dog_id
		WHERE a.id = $1
	`, id)

	a, err := scanAdoptionJoined(ctx, r.db, row)
	if err != nil {
		if err == sql.ErrNoRows {
			return adoptions.AdoptionRequest{}, adoptions.ErrNotFound
		}
		return adoptions.AdoptionRequest{}, err
	}
	return a, nil
}

func (r *AdoptionsRepo) List(ctx context.Context, filter adoptions.ListFilter, page adoptions.Page) ([]adoptions.AdoptionRequest, int, error) {
	where := ""
	args := make([]any, 0, 3)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = "WHERE a.status = $1"
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM adoptions a `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, (page.Page-1)*page.Limit)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM adoptions a
		LEFT JOIN dogs d ON d.id = a.dog_id
		%s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, adoptionJoined, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]adoptions.AdoptionRequest, 0)
	for rows.Next() {
		a, err := scanAdoptionJoined(ctx, r.db, rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *AdoptionsRepo) UpdateStatusLocked(ctx context.Context, id int64, status adoptions.Status, reason *string) (adoptions.AdoptionRequest, adoptions.Status, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return adoptions.AdoptionRequest{}, "", err
	}
	defer tx.Rollback()

	// Lock del registro: lectura del previo y escritura del nuevo son una
	// sola unidad frente a decisiones concurrentes del staff.
	var prev string
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM adoptions WHERE id = $1 FOR UPDATE
	`, id).Scan(&prev)
	if err != nil {
		if err == sql.ErrNoRows {
			return adoptions.AdoptionRequest{}, "", adoptions.ErrNotFound
		}
		return adoptions.AdoptionRequest{}, "", err
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE adoptions a
		SET status = $2,
			rejection_reason = COALESCE($3, a.rejection_reason),
			updated_at = now()
		WHERE a.id = $1
		RETURNING `+adoptionColumns,
		id, string(status), reason,
	)
	a, err := scanAdoption(row)
	if err != nil {
		return adoptions.AdoptionRequest{}, "", err
	}

	if err := tx.Commit(); err != nil {
		return adoptions.AdoptionRequest{}, "", err
	}
	return a, adoptions.Status(prev), nil
}

func (r *AdoptionsRepo) CountByStatus(ctx context.Context, status adoptions.Status) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM adoptions WHERE status = $1
	`, string(status)).Scan(&n)
	return n, err
}

func scanAdoption(row rowScanner) (adoptions.AdoptionRequest, error) {
	var a adoptions.AdoptionRequest
	var status string
	var rejection sql.NullString

	err := row.Scan(
		&a.ID, &a.DogID, &a.Name, &a.Email, &a.Phone, &a.Address,
		&a.Experience, &a.Reason, &status, &rejection,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return adoptions.AdoptionRequest{}, err
	}
	a.Status = adoptions.Status(status)
	a.RejectionReason = rejection.String
	return a, nil
}

func scanAdoptionJoined(ctx context.Context, db *sql.DB, row rowScanner) (adoptions.AdoptionRequest, error) {
	var a adoptions.AdoptionRequest
	var status string
	var rejection sql.NullString
	var dogName, dogStatus, dogLegacy sql.NullString
	var dogAvailable sql.NullBool

	err := row.Scan(
		&a.ID, &a.DogID, &a.Name, &a.Email, &a.Phone, &a.Address,
		&a.Experience, &a.Reason, &status, &rejection,
		&a.CreatedAt, &a.UpdatedAt,
		&dogName, &dogAvailable, &dogStatus, &dogLegacy,
	)
	if err != nil {
		return adoptions.AdoptionRequest{}, err
	}
	a.Status = adoptions.Status(status)
	a.RejectionReason = rejection.String

	if dogName.Valid {
		imgs, err := adoptionDogImages(ctx, db, a.DogID, dogLegacy)
		if err != nil {
			return adoptions.AdoptionRequest{}, err
		}
		a.Dog = &adoptions.DogView{
			Name:      dogName.String,
			Images:    imgs,
			Available: dogAvailable.Bool,
			Status:    dogStatus.String,
		}
	}
	return a, nil
}

func adoptionDogImages(ctx context.Context, db *sql.DB, dogID int64, legacy sql.NullString) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT url FROM dog_images
		WHERE dog_id = $1
		ORDER BY position ASC, id ASC
	`, dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 && legacy.Valid && strings.TrimSpace(legacy.String) != "" {
		return dogs.NormalizeImages(json.RawMessage(legacy.String)), nil
	}
	return out, nil
}
