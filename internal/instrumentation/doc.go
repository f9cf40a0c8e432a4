// Package instrumentation provides OpenTelemetry metrics and tracing
// for the instameet service.
//
// Metrics default to the Prometheus exporter, scraped from a dedicated
// metrics port so operational data stays off the application listener.
// Tracing is off by default and can be pointed at an OTLP collector.
package instrumentation
