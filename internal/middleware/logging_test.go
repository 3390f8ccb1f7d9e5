// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		method string
		inner  http.HandlerFunc
		want   int
		body   string
	}{
		{"explicit 200", http.MethodGet, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }, 200, ""},
		{"not found", http.MethodGet, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }, 404, ""},
		{"implicit 200", http.MethodGet, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hola")) }, 200, "hola"},
		{"created", http.MethodPost, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) }, 201, ""},
		{"server error", http.MethodPut, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, 502, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Logger(tt.inner).ServeHTTP(rr, httptest.NewRequest(tt.method, "/api/junior/items", nil))

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
			if rr.Body.String() != tt.body {
				t.Errorf("body: got %q, want %q", rr.Body.String(), tt.body)
			}
		})
	}
}

func TestResponseWriterCapture(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusUnprocessableEntity)
	rw.WriteHeader(http.StatusInternalServerError)
	n, err := rw.Write([]byte("campos"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if rw.statusCode != http.StatusUnprocessableEntity {
		t.Errorf("statusCode = %d, want the first WriteHeader (422)", rw.statusCode)
	}
	if n != 6 || rw.bytes != 6 {
		t.Errorf("bytes = %d/%d, want 6", n, rw.bytes)
	}
	if rw.Unwrap() == nil {
		t.Error("Unwrap returned nil")
	}
}
