// Package sqlerr handles database driver errors that escape the store.
//
// The store maps the constraint violations it expects (duplicate username,
// unknown user) to its own sentinel errors; anything else that reaches the
// global error handler as a raw driver error is classified here so clients
// never see SQLSTATE codes.
package sqlerr

// Code classifies a database error into the categories the API reacts to.
type Code int

const (
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
)

// MapCode translates a Postgres SQLSTATE into a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	default:
		return Other
	}
}
