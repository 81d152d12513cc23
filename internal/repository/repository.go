package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repositories struct {
	DocumentType    DocumentTypeRepository
	Notification    NotificationRepository
	NotificationLog NotificationLogRepository
	User            UserRepository
}

// NewRepositories wires the notification store and the read-only security
// directory. Both may point at the same database.
func NewRepositories(db *sqlx.DB, securityDB *sqlx.DB) *Repositories {
	return &Repositories{
		DocumentType:    NewDocumentTypeRepository(db),
		Notification:    NewNotificationRepository(db),
		NotificationLog: NewNotificationLogRepository(db),
		User:            NewUserRepository(securityDB),
	}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
