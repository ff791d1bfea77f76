package postgres

import (
	"database/sql"
)

// Storage bundles the postgres-backed repositories behind one value.
// Each method runs a single statement on its own pooled connection; there
// is no cross-request coordination.
type Storage struct {
	db *sql.DB
	*TokenRepository
	*UserRepository
	*CodeRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:              db,
		TokenRepository: NewTokenRepository(db),
		UserRepository:  NewUserRepository(db),
		CodeRepository:  NewCodeRepository(db),
	}
}
