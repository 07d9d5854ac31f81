// Package lock provides the cross-replica guard that keeps two cycles from
// running against the same stores at once.
package lock
