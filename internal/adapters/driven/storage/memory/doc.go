// Package memory provides in-memory implementations of the driven storage
// ports, plus a manually driven change feed. Used in tests and wherever
// durable storage is unnecessary.
package memory
