// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithMeterProvider records into provider instead of a built-in one. The
// caller keeps ownership: Shutdown does not stop it.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithGlobalMeterProvider registers the built-in provider with otel.SetMeterProvider.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithServiceName sets the service.name attribute.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version attribute.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithExportInterval sets how often push providers export.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithDurationBuckets overrides DefaultDurationBuckets.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithSizeBuckets overrides DefaultSizeBuckets.
func WithSizeBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.sizeBuckets = buckets
	}
}

// WithLogger sets the logger for the recorder's own events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPrometheus selects the Prometheus provider. Mount Recorder.Handler
// to expose it.
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
	}
}

// WithOTLP selects the OTLP HTTP provider. An "http://" endpoint disables TLS.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.providerSetCount++
		r.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout provider.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}

// WithExcludePaths skips requests whose path is one of paths.
//
// Example:
//
//	metrics.WithExcludePaths("/health", "/metrics")
func WithExcludePaths(paths ...string) Option {
	return func(r *Recorder) {
		r.filter.addPaths(paths...)
	}
}

// WithExcludePrefixes skips requests whose path starts with one of prefixes.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(r *Recorder) {
		r.filter.addPrefixes(prefixes...)
	}
}

// WithExcludePatterns skips requests whose path matches one of the regular
// expressions. Invalid expressions make New fail.
func WithExcludePatterns(patterns ...string) Option {
	return func(r *Recorder) {
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				r.validationErrors = append(r.validationErrors, fmt.Errorf("invalid exclude pattern %q: %w", p, err))
				continue
			}
			r.filter.addPatterns(re)
		}
	}
}
