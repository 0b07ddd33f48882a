// Package record holds the portal's client-side copy of the records of one entity type
// and the backends it is synchronised with.
package record

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUnauthorized  = errors.New("session expired, please log in again")
	ErrStaleResponse = errors.New("stale response discarded")
)

// Entity is a record as exchanged with the API: field name -> value. Every Entity has an "id".
type Entity map[string]interface{}

// ID returns the string form of the "id" field, "" when unset.
func (e Entity) ID() string {
	return e.String("id")
}

// String returns the display form of field. Integral numbers are printed without decimals.
func (e Entity) String(field string) string {
	switch v := e[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns field as an int; false if it is missing or not a number.
func (e Entity) Int(field string) (int, bool) {
	switch v := e[field].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

func (e Entity) Clone() Entity {
	c := make(Entity, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

// Params narrow a List call. Backends may ignore them: the portal filters records itself.
type Params struct {
	Search  string
	Filters map[string]string // API query param -> value
	Limit   int
}

// Backend is where records of a kind ("students", "teachers", "grades") are persisted.
type Backend interface {
	List(ctx context.Context, kind string, params Params) ([]Entity, error)
	Create(ctx context.Context, kind string, data Entity) (Entity, error)
	// Update returns ErrNotFound if no record has id.
	Update(ctx context.Context, kind, id string, data Entity) (Entity, error)
	// Delete returns ErrNotFound if no record has id.
	Delete(ctx context.Context, kind, id string) error
}

// NetworkError is a transport failure or an unexpected response status.
type NetworkError struct {
	Op     string
	Status int // 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status == 0 {
		return e.Op + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err means the session is no longer valid.
func IsUnauthorized(err error) bool {
	return errors.Cause(err) == ErrUnauthorized
}
