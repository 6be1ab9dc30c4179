package store

import (
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// IsConstraintViolation reports whether err comes from a uniqueness,
// foreign-key, not-null or check constraint in either supported driver
func IsConstraintViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	var pe *pq.Error
	if errors.As(err, &pe) {
		// Class 23: integrity constraint violation
		return pe.Code.Class() == "23"
	}

	return false
}

// wrapErr tags a driver error with ErrIntegrity or ErrUnexpected
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *model.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return model.NewStoreError(op, IsConstraintViolation(err), err)
}
