// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"

	"starbiz/internal/models"
)

// Direction moves a unit within its sibling set.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection parses "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q", s)
}

// SwapAdjacent returns the index that position i trades places with when
// moved in dir within a list of n siblings. ok is false at either end.
func SwapAdjacent(n, i int, dir Direction) (j int, ok bool) {
	if i < 0 || i >= n {
		return 0, false
	}
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return 0, false
	}
	if j < 0 || j >= n {
		return 0, false
	}
	return j, true
}

// SwapPositions exchanges the position fields (order index and number) of
// two units in place.
func SwapPositions(a, b *models.Unit) {
	a.OrderIndex, b.OrderIndex = b.OrderIndex, a.OrderIndex
	a.Number, b.Number = b.Number, a.Number
}

// Dense reports whether the order indexes of a sibling set form a
// permutation of 0..n-1.
func Dense(units []models.Unit) bool {
	seen := make([]bool, len(units))
	for _, u := range units {
		if u.OrderIndex < 0 || u.OrderIndex >= len(units) || seen[u.OrderIndex] {
			return false
		}
		seen[u.OrderIndex] = true
	}
	return true
}
