// Package server holds the HTTP server configuration.
//
// The application entry point starts the Fiber server; this package only
// defines the settings it reads: the bind address and the API key that
// protects the comparison endpoints.
//
// # Usage
//
// This package is embedded by core/config and read by the start command:
//
//	app.Listen(cfg.Server.Address())
package server
