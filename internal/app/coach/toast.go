package coach

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stride-coach/stride/internal/domain"
	"github.com/stride-coach/stride/internal/infra/sqlite"
)

// Toaster is the user-facing message sink. Every success and failure path
// in the engine reports through it — the contract is "never silent".
// A failure to queue a toast is logged and swallowed so the sink can never
// take down the operation it is reporting on.
type Toaster struct {
	db  *sqlite.DB
	log *logrus.Entry
}

// NewToaster creates the toast sink.
func NewToaster(db *sqlite.DB, log *logrus.Entry) *Toaster {
	return &Toaster{db: db, log: log}
}

var _ domain.Notifier = (*Toaster)(nil)

// Notify queues a toast for the user.
func (t *Toaster) Notify(user, message string, kind domain.ToastType) {
	t.notify(t.db.Store, user, message, kind)
}

// NotifyTx queues a toast inside an open transaction so the message commits
// or rolls back with the work it describes.
func (t *Toaster) NotifyTx(st *sqlite.Store, user, message string, kind domain.ToastType) {
	t.notify(st, user, message, kind)
}

func (t *Toaster) notify(st *sqlite.Store, user, message string, kind domain.ToastType) {
	toast := domain.Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      kind,
		CreatedAt: time.Now().Unix(),
	}
	if err := st.InsertToast(user, toast); err != nil {
		t.log.WithError(err).WithFields(logrus.Fields{
			"user": user,
			"type": kind,
		}).Error("failed to queue toast")
		return
	}
	t.log.WithFields(logrus.Fields{
		"user": user,
		"type": kind,
		"msg":  message,
	}).Debug("toast queued")
}

// Pending returns undelivered toasts, oldest first.
func (t *Toaster) Pending(user string, limit int) ([]domain.Toast, error) {
	return t.db.ListPendingToasts(user, limit)
}

// MarkShown marks a toast as delivered.
func (t *Toaster) MarkShown(user, id string) error {
	return t.db.MarkToastShown(user, id)
}
