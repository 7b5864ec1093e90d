package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

const uniqueViolationCode = "23505"

// constraint name -> externally visible field name
var constraintFields = map[string]string{
	"users_email_key":    "email",
	"captains_email_key": "email",
	"captains_plate_key": "plate",
}

// mapUniqueViolation turns a Postgres unique-constraint violation into a
// duplicate-key error naming the conflicting field. Other errors pass
// through untouched.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if field, ok := constraintFields[pgErr.ConstraintName]; ok {
			return apperrors.NewDuplicateKey(field)
		}
		return apperrors.NewDuplicateKey(pgErr.ConstraintName)
	}
	return err
}
