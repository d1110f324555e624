// Package server holds the admin HTTP server configuration.
package server
