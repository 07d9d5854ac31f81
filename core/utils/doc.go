// Package utils provides conversion helpers for loosely typed remote payloads,
// such as catalog meta values and pagination headers.
package utils
