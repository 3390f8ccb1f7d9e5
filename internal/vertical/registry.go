// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package vertical

import (
	"context"
	"errors"

	"starbiz/internal/config"
	"starbiz/internal/metrics"
)

// Registry holds the open backends keyed by vertical.
type Registry struct {
	order    []string
	backends map[string]*Backend
}

// NewRegistry builds a registry from already opened backends.
func NewRegistry(backends ...*Backend) *Registry {
	r := &Registry{backends: make(map[string]*Backend, len(backends))}
	for _, b := range backends {
		if _, dup := r.backends[b.Def.Key]; !dup {
			r.order = append(r.order, b.Def.Key)
		}
		r.backends[b.Def.Key] = b
	}
	return r
}

// OpenAll opens every configured vertical. If one fails, those already
// opened are closed.
func OpenAll(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*Registry, error) {
	var opened []*Backend
	for _, vc := range cfg.Verticals {
		b, err := Open(ctx, vc, cfg.IsDev(), m)
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			return nil, err
		}
		opened = append(opened, b)
	}
	return NewRegistry(opened...), nil
}

// Get returns the backend of a vertical.
func (r *Registry) Get(key string) (*Backend, bool) {
	b, ok := r.backends[key]
	return b, ok
}

// All returns the backends in configuration order.
func (r *Registry) All() []*Backend {
	out := make([]*Backend, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.backends[k])
	}
	return out
}

// Close closes every backend.
func (r *Registry) Close() error {
	var errs []error
	for _, b := range r.All() {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
