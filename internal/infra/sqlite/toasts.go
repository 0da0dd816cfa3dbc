package sqlite

import (
	"github.com/stride-coach/stride/internal/domain"
)

// InsertToast queues a user-facing message.
func (s *Store) InsertToast(user string, t domain.Toast) error {
	_, err := s.q.Exec(
		`INSERT INTO toasts (id, user_email, message, type, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, user, t.Message, string(t.Type), t.CreatedAt, t.Shown,
	)
	return err
}

// ListPendingToasts returns unshown toasts, oldest first.
func (s *Store) ListPendingToasts(user string, limit int) ([]domain.Toast, error) {
	rows, err := s.q.Query(
		`SELECT id, message, type, created_at, shown
		 FROM toasts WHERE user_email = ? AND shown = 0
		 ORDER BY created_at ASC LIMIT ?`, user, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var toasts []domain.Toast
	for rows.Next() {
		var t domain.Toast
		var kind string
		if err := rows.Scan(&t.ID, &t.Message, &kind, &t.CreatedAt, &t.Shown); err != nil {
			return nil, err
		}
		t.Type = domain.ToastType(kind)
		toasts = append(toasts, t)
	}
	return toasts, rows.Err()
}

// MarkToastShown marks a toast as delivered.
func (s *Store) MarkToastShown(user, id string) error {
	_, err := s.q.Exec(
		`UPDATE toasts SET shown = 1 WHERE user_email = ? AND id = ?`, user, id,
	)
	return err
}
