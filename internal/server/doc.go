// Package server implements the HTTP server and HTTP handlers for
// image-drop. It wires together the HTTP routes, the disk store, and
// provides lifecycle helpers used by tests and the production binary.
package server
