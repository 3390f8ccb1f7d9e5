// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"starbiz/internal/session"
)

type fakeLoader struct {
	data *session.Data
	err  error
}

func (f fakeLoader) Get(context.Context, *http.Request) (*session.Data, error) {
	return f.data, f.err
}

func okHandler() (http.Handler, *bool) {
	var called bool
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestLoadSession(t *testing.T) {
	admin := &session.Data{Email: "admin@starbiz.local"}

	tests := []struct {
		name   string
		loader fakeLoader
		want   *session.Data
	}{
		{"session present", fakeLoader{data: admin}, admin},
		{"no session", fakeLoader{}, nil},
		{"store error", fakeLoader{err: errors.New("valkey down")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			handler := LoadSession(tt.loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = SessionFromCtx(r.Context())
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			if got != tt.want {
				t.Errorf("session = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("rejects anonymous", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/junior/items", nil))

		if *called {
			t.Error("next handler must not run")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("allows session", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/junior/items", nil)
		req = req.WithContext(WithSession(req.Context(), &session.Data{Email: "admin@starbiz.local"}))
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, req)

		if !*called || rr.Code != http.StatusOK {
			t.Errorf("called=%v status=%d", *called, rr.Code)
		}
	})
}

func TestSessionFromCtxEmpty(t *testing.T) {
	if SessionFromCtx(context.Background()) != nil {
		t.Error("expected nil session")
	}
}
