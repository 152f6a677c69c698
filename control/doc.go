// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, metrics export and debug introspection for byte rings.
//
// Provides:
//   - Config loading from YAML with validation ahead of ring construction
//   - ConfigStore with synchronous reload listeners
//   - A Prometheus collector reading ring stats at scrape time
//   - Debug probe registration and state export
package control
