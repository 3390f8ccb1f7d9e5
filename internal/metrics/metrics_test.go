// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m.RecordUpload("junior", "videos", 1024, 10*time.Millisecond, nil)
	m.RecordUpload("junior", "videos", 2048, time.Millisecond, errors.New("boom"))
	m.RecordBlobDelete("junior", nil)
	m.RecordNotifications("junior", "inserted", 3)
	m.RecordNotifications("junior", "skipped", 0)

	if got := testutil.ToFloat64(m.uploads.WithLabelValues("junior", "videos", "ok")); got != 1 {
		t.Errorf("ok uploads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.uploads.WithLabelValues("junior", "videos", "error")); got != 1 {
		t.Errorf("failed uploads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.uploadBytes.WithLabelValues("junior")); got != 1024 {
		t.Errorf("uploaded bytes = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(m.notifications.WithLabelValues("junior", "inserted")); got != 3 {
		t.Errorf("inserted notifications = %v, want 3", got)
	}
}

func TestNewReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(reg)
	if err != nil {
		t.Fatalf("first New: %v", err)
	}
	b, err := New(reg)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	if a.uploads != b.uploads {
		t.Error("second New should reuse the registered collector")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RecordUpload("audio", "audios", 1, time.Second, nil)
	m.RecordBlobDelete("audio", nil)
	m.RecordNotifications("audio", "inserted", 1)
}
