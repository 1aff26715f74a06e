package sqlerr

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitlog/exercise-tracker/internal/errs"
)

// HandleError converts a low-level database error into an application-level
// *errs.HTTPError.
//
// Behavior:
//   - *errs.HTTPError passes through unchanged.
//   - Constraint violations become 400s with a generic message.
//   - ErrNoRows becomes a 404.
//   - Everything else becomes a 500; details stay in the server log.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch MapCode(pgErr.Code) {
		case UniqueViolation:
			return errs.NewBadRequestError("a record with this identifier already exists")
		case ForeignKeyViolation:
			return errs.NewBadRequestError("the referenced record does not exist")
		case NotNullViolation, CheckViolation:
			return errs.NewBadRequestError("one or more values do not meet required conditions")
		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("record not found")
	}

	return errs.NewInternalServerError()
}
