// Package health aggregates named readiness checks into a single JSON
// HTTP endpoint. Checks run in parallel under a shared timeout and a
// single failure turns the whole response unhealthy (HTTP 503) while
// still reporting every dependency individually.
package health
