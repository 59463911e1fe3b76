package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"ong-shelter-api/internal/domain/dogs"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

const dogColumns = `
	id, name, age, size, gender, breed, animal_type,
	description, temperament, vaccinated, neutered,
	available, status, legacy_images, created_at, updated_at`

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) (dogs.Dog, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dogs.Dog{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO dogs (
			name, age, size, gender, breed, animal_type,
			description, temperament, vaccinated, neutered,
			available, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id
	`,
		d.Name, d.Age, string(d.Size), string(d.Gender), d.Breed, string(d.AnimalType),
		d.Description, d.Temperament, d.Vaccinated, d.Neutered,
		d.Available, string(d.Status), d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return dogs.Dog{}, err
	}

	if err := replaceImagesTx(ctx, tx, d.ID, d.Images); err != nil {
		return dogs.Dog{}, err
	}

	if err := tx.Commit(); err != nil {
		return dogs.Dog{}, err
	}
	return d, nil
}

func (r *DogsRepo) GetByID(ctx context.Context, id int64) (dogs.Dog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+dogColumns+`
		FROM dogs
		WHERE id = $1
	`, id)

	d, legacy, err := scanDog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return dogs.Dog{}, dogs.ErrNotFound
		}
		return dogs.Dog{}, err
	}

	d.Images, err = r.imagesFor(ctx, d.ID, legacy)
	if err != nil {
		return dogs.Dog{}, err
	}
	return d, nil
}

func (r *DogsRepo) List(ctx context.Context, filter dogs.ListFilter, page dogs.Page) ([]dogs.Dog, int, error) {
	where, args := buildDogFilter(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dogs `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, (page.Page-1)*page.Limit)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM dogs
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, dogColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	legacies := make([]sql.NullString, 0)
	for rows.Next() {
		d, legacy, err := scanDog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
		legacies = append(legacies, legacy)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Imágenes por fila: N+1 asumido para el tamaño del catálogo de la ONG.
	for i := range out {
		imgs, err := r.imagesFor(ctx, out[i].ID, legacies[i])
		if err != nil {
			return nil, 0, err
		}
		out[i].Images = imgs
	}

	return out, total, nil
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) (dogs.Dog, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dogs.Dog{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $2, age = $3, size = $4, gender = $5, breed = $6,
			animal_type = $7, description = $8, temperament = $9,
			vaccinated = $10, neutered = $11, available = $12, status = $13,
			legacy_images = NULL,
			updated_at = $14
		WHERE id = $1
	`,
		d.ID, d.Name, d.Age, string(d.Size), string(d.Gender), d.Breed,
		string(d.AnimalType), d.Description, d.Temperament,
		d.Vaccinated, d.Neutered, d.Available, string(d.Status),
		d.UpdatedAt,
	)
	if err != nil {
		return dogs.Dog{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	if err := replaceImagesTx(ctx, tx, d.ID, d.Images); err != nil {
		return dogs.Dog{}, err
	}

	if err := tx.Commit(); err != nil {
		return dogs.Dog{}, err
	}
	return d, nil
}

func (r *DogsRepo) Delete(ctx context.Context, id int64) error {
	// dog_images cae por FK ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) SetAvailability(ctx context.Context, id int64, available bool, status dogs.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET available = $2, status = $3, updated_at = now()
		WHERE id = $1
	`, id, available, string(status))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) Count(ctx context.Context, onlyAvailable bool) (int, error) {
	q := `SELECT COUNT(*) FROM dogs`
	if onlyAvailable {
		q += ` WHERE available = true`
	}
	var n int
	err := r.db.QueryRowContext(ctx, q).Scan(&n)
	return n, err
}

// imagesFor lee dog_images; si el registro todavía no migró, cae a la
// columna legacy y la pasa por el normalizador.
func (r *DogsRepo) imagesFor(ctx context.Context, dogID int64, legacy sql.NullString) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(row rowScanner) (dogs.Dog, sql.NullString, error) {
	var d dogs.Dog
	var size, gender, animalType, status string
	var legacy sql.NullString

	err := row.Scan(
		&d.ID, &d.Name, &d.Age, &size, &gender, &d.Breed, &animalType,
		&d.Description, &d.Temperament, &d.Vaccinated, &d.Neutered,
		&d.Available, &status, &legacy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return dogs.Dog{}, sql.NullString{}, err
	}

	d.Size = dogs.Size(size)
	d.Gender = dogs.Gender(gender)
	d.AnimalType = dogs.AnimalType(animalType)
	d.Status = dogs.Status(status)
	return d, legacy, nil
}

func replaceImagesTx(ctx context.Context, tx *sql.Tx, dogID int64, images []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM dog_images WHERE dog_id = $1`, dogID); err != nil {
		return err
	}
	for i, u := range images {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO dog_images (dog_id, url, position) VALUES ($1, $2, $3)
		`, dogID, u, i); err != nil {
			return err
		}
	}
	return nil
}

func buildDogFilter(filter dogs.ListFilter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	switch {
	case filter.All:
		// sin filtro de disponibilidad
	case filter.Available != nil:
		add("available = $%d", *filter.Available)
	default:
		// default del catálogo público: disponibles y no adoptados
		conds = append(conds, "available = true", "status <> 'adopted'")
	}

	if filter.Size != "" {
		add("size = $%d", string(filter.Size))
	}
	if filter.Gender != "" {
		add("gender = $%d", string(filter.Gender))
	}
	if filter.AnimalType != "" {
		add("animal_type = $%d", string(filter.AnimalType))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		add("name ILIKE $%d", "%"+s+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
