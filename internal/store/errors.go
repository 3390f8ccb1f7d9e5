// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSlugTaken is returned when a content item slug collides with
	// another item of the same vertical.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrNotSiblings is returned by Swap when the two units do not share
	// a sibling scope.
	ErrNotSiblings = errors.New("units are not siblings")
)

// isUniqueViolation reports whether err is a PostgreSQL unique violation
// on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
