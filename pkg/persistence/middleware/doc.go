// Package middleware provides decorators for render caches.
package middleware
