// Package models defines server-side data models persisted in the database.
package models

import (
	"regexp"
	"strings"
	"time"
)

// ServerTimestamp, used as a field value on create or update, is replaced by
// the store's clock at write time.
const ServerTimestamp = "\x00folio:server-timestamp"

// Document is one loosely typed record of a collection.
type Document struct {
	ID         string
	Collection string
	Fields     map[string]any
	CreatedAt  time.Time
}

// String returns the named field as a string, or "" when it is absent or
// not a string.
func (d Document) String(field string) string {
	s, _ := d.Fields[field].(string)
	return s
}

// Direction of an ordered listing.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts asc/desc in any case; anything else is Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Order selects the field a listing is sorted by. The zero value keeps
// insertion order.
type Order struct {
	Field     string
	Direction Direction
}

// By is shorthand for Order{Field: field, Direction: dir}.
func By(field string, dir Direction) Order {
	return Order{Field: field, Direction: dir}
}

var fieldNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidFieldName reports whether name can be used to filter or order on.
func ValidFieldName(name string) bool {
	return fieldNameRe.MatchString(name)
}
