// Package metrics serves the Prometheus metrics endpoint.
//
// Collectors register themselves with the default registry via promauto;
// this package exposes that registry over HTTP when metrics are enabled in
// configuration.
package metrics
