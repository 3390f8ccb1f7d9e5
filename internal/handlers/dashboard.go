// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"starbiz/internal/cache"
	"starbiz/internal/models"
	"starbiz/internal/vertical"
)

// Dashboard serves the per-vertical overview counts.
type Dashboard struct {
	verticals *vertical.Registry
	stats     *cache.StatsCache
}

// NewDashboard creates the dashboard handler.
func NewDashboard(verticals *vertical.Registry, stats *cache.StatsCache) *Dashboard {
	return &Dashboard{verticals: verticals, stats: stats}
}

type verticalSummary struct {
	Key            string        `json:"key"`
	Label          string        `json:"label"`
	StorageEnabled bool          `json:"storage_enabled"`
	Stats          *models.Stats `json:"stats"`
	Error          string        `json:"error,omitempty"`
}

// Show handles GET /api/dashboard. A vertical whose database cannot be read
// is reported with an error instead of failing the whole response.
func (d *Dashboard) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out := make([]verticalSummary, 0, len(d.verticals.All()))

	for _, b := range d.verticals.All() {
		s := verticalSummary{Key: b.Def.Key, Label: b.Def.Label, StorageEnabled: b.StorageEnabled}

		if st, ok := d.stats.Get(ctx, b.Def.Key); ok {
			s.Stats = st
		} else if st, err := b.Stats.Stats(ctx); err != nil {
			slog.Error("dashboard stats failed", "vertical", b.Def.Key, "error", err)
			s.Error = "counts unavailable"
		} else {
			s.Stats = st
			d.stats.Set(ctx, b.Def.Key, st)
		}

		out = append(out, s)
	}

	writeJSON(w, http.StatusOK, map[string]any{"verticals": out})
}
