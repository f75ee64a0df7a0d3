// Package types defines the compiled plan structures used by the codec.
//
// A Plan is built once per Go type and describes how values of that type map
// to the wire: primitive width, container shape, union variants, registered
// enum values and per-field modifier pipelines.
//
// This package is internal to the codec.
package types
