package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ong-shelter-api/internal/domain/contacts"
)

type ContactsRepo struct {
	db *sql.DB
}

func NewContactsRepo(db *sql.DB) *ContactsRepo {
	return &ContactsRepo{db: db}
}

const contactColumns = `id, name, email, subject, message, status, created_at`

func (r *ContactsRepo) Create(ctx context.Context, c contacts.Contact) (contacts.Contact, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contacts (name, email, subject, message, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		c.Name, c.Email, c.Subject, c.Message, string(c.Status), c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return contacts.Contact{}, err
	}
	return c, nil
}

func (r *ContactsRepo) List(ctx context.Context, filter contacts.ListFilter, page contacts.Page) ([]contacts.Contact, int, error) {
	where := ""
	args := make([]any, 0, 3)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = "WHERE status = $1"
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, (page.Page-1)*page.Limit)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM contacts
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, contactColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]contacts.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ContactsRepo) UpdateStatus(ctx context.Context, id int64, status contacts.Status) (contacts.Contact, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE contacts
		SET status = $2
		WHERE id = $1
		RETURNING `+contactColumns,
		id, string(status),
	)
	c, err := scanContact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return contacts.Contact{}, contacts.ErrNotFound
		}
		return contacts.Contact{}, err
	}
	return c, nil
}

func (r *ContactsRepo) CountByStatus(ctx context.Context, status contacts.Status) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM contacts WHERE status = $1
	`, string(status)).Scan(&n)
	return n, err
}

func scanContact(row rowScanner) (contacts.Contact, error) {
	var c contacts.Contact
	var status string

	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &status, &c.CreatedAt)
	if err != nil {
		return contacts.Contact{}, err
	}
	c.Status = contacts.Status(status)
	return c, nil
}
