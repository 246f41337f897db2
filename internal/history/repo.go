package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Upload is one row of the upload log.
type Upload struct {
	ID         string
	FileName   string
	URL        string
	UploadedAt time.Time
}

// Repo reads and writes the upload log.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db, now: Now} }

// Record stores a finished upload under a fresh id.
func (r *Repo) Record(ctx context.Context, fileName, url string) (Upload, error) {
	u := Upload{
		ID:         uuid.NewString(),
		FileName:   fileName,
		URL:        url,
		UploadedAt: r.now(),
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO uploads(id, file_name, url, uploaded_at) VALUES (?, ?, ?, ?);
	`, u.ID, u.FileName, u.URL, u.UploadedAt)
	if err != nil {
		return Upload{}, err
	}
	return u, nil
}

// Recent returns up to limit uploads, newest first. limit <= 0 means all.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Upload, error) {
	q := `SELECT id, file_name, url, uploaded_at FROM uploads ORDER BY uploaded_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.FileName, &u.URL, &u.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Clear removes every row and reports how many were deleted.
func (r *Repo) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM uploads`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
