// Package handler exposes the HTTP API: email dispatch and history,
// template CRUD and attachment downloads, mounted on a chi router.
package handler
