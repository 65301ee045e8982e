package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindInvalid     Kind = "invalid"
	KindUnavailable Kind = "unavailable"
	KindInternal    Kind = "internal"
)

// Error carries a message fit to be shown to the admin as-is.
type Error struct {
	Op      string
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func invalidf(op, format string, args ...any) error {
	return &Error{Op: op, Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func notFound(op string) error {
	return &Error{Op: op, Kind: KindNotFound, Message: "record not found", Err: gorm.ErrRecordNotFound}
}

func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if err == nil {
		return ""
	}
	return KindInternal
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// HTTPStatus maps a store error to the status the JSON API answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// translate turns driver/GORM errors into *Error. The Postgres message is kept verbatim.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(op)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Op: op, Kind: KindUnavailable, Message: "the database did not answer in time", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{Op: op, Kind: pgKind(pgErr.Code), Message: pgErr.Message, Err: err}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return &Error{Op: op, Kind: KindUnavailable, Message: "cannot reach the database", Err: err}
	}
	return &Error{Op: op, Kind: KindInternal, Message: err.Error(), Err: err}
}

func pgKind(code string) Kind {
	switch {
	case code == "23505":
		return KindConflict
	case code == "23503", code == "23502", code == "23514", strings.HasPrefix(code, "22"):
		return KindInvalid
	case code == "57014", strings.HasPrefix(code, "08"), strings.HasPrefix(code, "53"):
		return KindUnavailable
	default:
		return KindInternal
	}
}
