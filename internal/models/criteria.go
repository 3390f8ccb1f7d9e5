// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// CriteriaType is the discriminant of the exam criteria union.
type CriteriaType string

const (
	CriteriaMinScore    CriteriaType = "min_score"
	CriteriaMinLessons  CriteriaType = "min_lessons"
	CriteriaCompleteAll CriteriaType = "complete_all"
)

// Criteria is the pass condition of an exam. It is a tagged union keyed by
// Type; only the payload field of the active variant is meaningful:
//
//	{"type":"min_score","score":80}
//	{"type":"min_lessons","count":5}
//	{"type":"complete_all"}
type Criteria struct {
	Type  CriteriaType
	Score int
	Count int
}

// Validate checks the payload of the active variant.
func (c Criteria) Validate() error {
	switch c.Type {
	case CriteriaMinScore:
		if c.Score < 1 || c.Score > 100 {
			return fmt.Errorf("criteria min_score: score must be between 1 and 100, got %d", c.Score)
		}
	case CriteriaMinLessons:
		if c.Count < 1 {
			return fmt.Errorf("criteria min_lessons: count must be positive, got %d", c.Count)
		}
	case CriteriaCompleteAll:
	case "":
		return errors.New("criteria: missing type")
	default:
		return fmt.Errorf("criteria: unknown type %q", c.Type)
	}
	return nil
}

type minScorePayload struct {
	Type  CriteriaType `json:"type"`
	Score int          `json:"score"`
}

type minLessonsPayload struct {
	Type  CriteriaType `json:"type"`
	Count int          `json:"count"`
}

type bareCriteria struct {
	Type CriteriaType `json:"type"`
}

// MarshalJSON writes only the active variant's fields.
func (c Criteria) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case CriteriaMinScore:
		return json.Marshal(minScorePayload{Type: c.Type, Score: c.Score})
	case CriteriaMinLessons:
		return json.Marshal(minLessonsPayload{Type: c.Type, Count: c.Count})
	default:
		return json.Marshal(bareCriteria{Type: c.Type})
	}
}

// UnmarshalJSON reads the discriminant first, then decodes the matching
// variant strictly so stray fields from other variants are rejected.
func (c *Criteria) UnmarshalJSON(data []byte) error {
	var head bareCriteria
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("criteria: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var out Criteria
	switch head.Type {
	case CriteriaMinScore:
		var p minScorePayload
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("criteria min_score: %w", err)
		}
		out = Criteria{Type: p.Type, Score: p.Score}
	case CriteriaMinLessons:
		var p minLessonsPayload
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("criteria min_lessons: %w", err)
		}
		out = Criteria{Type: p.Type, Count: p.Count}
	case CriteriaCompleteAll:
		var p bareCriteria
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("criteria complete_all: %w", err)
		}
		out = Criteria{Type: p.Type}
	default:
		out = Criteria{Type: head.Type}
	}

	if err := out.Validate(); err != nil {
		return err
	}
	*c = out
	return nil
}

// Value stores the criteria as JSONB.
func (c Criteria) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the criteria from a JSONB column.
func (c *Criteria) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return c.UnmarshalJSON(v)
	case string:
		return c.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("criteria: cannot scan %T", src)
	}
}
