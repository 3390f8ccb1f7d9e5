// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"testing"
)

func TestCriteriaUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Criteria
		wantErr bool
	}{
		{name: "min score", input: `{"type":"min_score","score":80}`, want: Criteria{Type: CriteriaMinScore, Score: 80}},
		{name: "min lessons", input: `{"type":"min_lessons","count":3}`, want: Criteria{Type: CriteriaMinLessons, Count: 3}},
		{name: "complete all", input: `{"type":"complete_all"}`, want: Criteria{Type: CriteriaCompleteAll}},

		// Invalid payloads
		{name: "score out of range", input: `{"type":"min_score","score":120}`, wantErr: true},
		{name: "zero count", input: `{"type":"min_lessons","count":0}`, wantErr: true},
		{name: "field from other variant", input: `{"type":"min_score","score":50,"count":2}`, wantErr: true},
		{name: "payload on bare variant", input: `{"type":"complete_all","score":1}`, wantErr: true},
		{name: "unknown type", input: `{"type":"streak","days":5}`, wantErr: true},
		{name: "missing type", input: `{"score":50}`, wantErr: true},
		{name: "not an object", input: `"min_score"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Criteria
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Unmarshal(%s) = %+v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCriteriaMarshalOnlyActiveVariant(t *testing.T) {
	// Stale payload fields from another variant must not leak into JSON.
	c := Criteria{Type: CriteriaCompleteAll, Score: 90, Count: 4}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"type":"complete_all"}` {
		t.Errorf("Marshal = %s, want %s", b, `{"type":"complete_all"}`)
	}

	c = Criteria{Type: CriteriaMinScore, Score: 70}
	b, _ = json.Marshal(c)
	if string(b) != `{"type":"min_score","score":70}` {
		t.Errorf("Marshal = %s", b)
	}
}

func TestCriteriaScan(t *testing.T) {
	var c Criteria
	if err := c.Scan([]byte(`{"type":"min_lessons","count":2}`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if c.Type != CriteriaMinLessons || c.Count != 2 {
		t.Errorf("Scan = %+v", c)
	}
	if err := c.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}
