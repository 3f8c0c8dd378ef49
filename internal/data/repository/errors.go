package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kinds a StoreError can carry. Match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConstraint   = errors.New("constraint violation")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransport    = errors.New("store unreachable")
	ErrStore        = errors.New("store error")
)

// StoreError is what every repository operation returns on failure.
type StoreError struct {
	Op   string
	Code string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func notFound(op string) error {
	return &StoreError{Op: op, Kind: ErrNotFound, Err: ErrNotFound}
}

// fromPgx classifies an error returned by pgx.
func fromPgx(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}

	e := &StoreError{Op: op, Kind: ErrStore, Err: err}

	var pgErr *pgconn.PgError
	var netErr net.Error
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		e.Kind = ErrNotFound
	case errors.As(err, &pgErr):
		e.Code = pgErr.Code
		e.Kind = kindForSQLState(pgErr.Code)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr), pgconn.SafeToRetry(err), pgconn.Timeout(err):
		e.Kind = ErrTransport
	}
	return e
}

func kindForSQLState(code string) error {
	switch {
	case strings.HasPrefix(code, "23"):
		return ErrConstraint
	case code == "42501":
		return ErrForbidden
	case strings.HasPrefix(code, "08"):
		return ErrTransport
	default:
		return ErrStore
	}
}

// postgrest-go reports failures as "(CODE) message".
var restCodePattern = regexp.MustCompile(`^\(([^)]*)\)\s*(.*)$`)

// fromREST classifies an error returned by postgrest-go.
func fromREST(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}

	e := &StoreError{Op: op, Kind: ErrTransport, Err: err}

	m := restCodePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return e
	}

	e.Code = m[1]
	switch {
	case e.Code == "PGRST116":
		e.Kind = ErrNotFound
	case e.Code == "PGRST301", e.Code == "PGRST302":
		e.Kind = ErrUnauthorized
	case e.Code == "":
		e.Kind = ErrStore
	default:
		e.Kind = kindForSQLState(e.Code)
	}
	return e
}

// gotrue-go reports failures as "response status code N: body".
var authStatusPattern = regexp.MustCompile(`status code (\d{3})`)

// FromAuth classifies an error returned by the auth service client.
func FromAuth(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}

	e := &StoreError{Op: op, Kind: ErrTransport, Err: err}

	m := authStatusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return e
	}

	e.Code = m[1]
	status, _ := strconv.Atoi(m[1])
	switch status {
	case 400, 401, 403:
		e.Kind = ErrUnauthorized
	case 422:
		// already registered, or a password the server's policy rejects
		e.Kind = ErrConstraint
	default:
		e.Kind = ErrStore
	}
	return e
}
