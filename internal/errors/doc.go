// Package errors defines error types for the Gemini SDK.
//
// This package provides structured error types covering the four failure
// classes seen when driving the gemini CLI: launch failure, JSON decode
// failure, API-reported failure, and non-zero-exit runtime failure. All
// error types support error unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
