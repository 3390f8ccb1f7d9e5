// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exports upload, blob-delete, and notification counters to
// Prometheus. All recording methods are safe on a nil *Metrics.
package metrics

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "starbiz"

// Metrics holds the collectors shared by every vertical. Each series is
// labelled with the vertical key.
type Metrics struct {
	uploads        *prometheus.CounterVec
	uploadBytes    *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
	blobDeletes    *prometheus.CounterVec
	notifications  *prometheus.CounterVec
}

var (
	sharedOnce    sync.Once
	sharedMetrics *Metrics
)

// Default returns the process-wide metrics registered on the default
// Prometheus registerer.
func Default() *Metrics {
	sharedOnce.Do(func() {
		sharedMetrics = MustNew(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNew creates and registers the collectors, panicking on conflicts
// that cannot be resolved by reusing an existing collector.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}
	return m
}

// New creates the collectors and registers them with reg. Collectors that
// are already registered are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{}
	var err error
	if m.uploads, err = registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Object storage uploads by folder and result.",
	}, []string{"vertical", "folder", "result"})); err != nil {
		return nil, err
	}
	if m.uploadBytes, err = registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploaded_bytes_total",
		Help:      "Bytes successfully uploaded to object storage.",
	}, []string{"vertical"})); err != nil {
		return nil, err
	}
	if m.uploadDuration, err = registerHistogram(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_duration_seconds",
		Help:      "Latency of object storage uploads.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"vertical"})); err != nil {
		return nil, err
	}
	if m.blobDeletes, err = registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blob_deletes_total",
		Help:      "Best-effort deletes of owned blobs by result.",
	}, []string{"vertical", "result"})); err != nil {
		return nil, err
	}
	if m.notifications, err = registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Notification rows by outcome (inserted, skipped, failed).",
	}, []string{"vertical", "result"})); err != nil {
		return nil, err
	}
	return m, nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register counter: %w", err)
	}
	return c, nil
}

func registerHistogram(reg prometheus.Registerer, h *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register histogram: %w", err)
	}
	return h, nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordUpload tracks one upload attempt.
func (m *Metrics) RecordUpload(vertical, folder string, size int64, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(vertical, folder, result(err)).Inc()
	m.uploadDuration.WithLabelValues(vertical).Observe(d.Seconds())
	if err == nil {
		m.uploadBytes.WithLabelValues(vertical).Add(float64(size))
	}
}

// RecordBlobDelete tracks one best-effort delete.
func (m *Metrics) RecordBlobDelete(vertical string, err error) {
	if m == nil {
		return
	}
	m.blobDeletes.WithLabelValues(vertical, result(err)).Inc()
}

// RecordNotifications adds n to the counter for outcome.
func (m *Metrics) RecordNotifications(vertical, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.notifications.WithLabelValues(vertical, outcome).Add(float64(n))
}
