// Package logger builds the zap logger shared by the server, the CLI and the
// compare service.
//
// Level is one of debug, info, warn or error; debug switches to zap's
// development preset. Format is json or console. WithRayID attaches the
// request id set by the rayid middleware so every line of a request can be
// correlated:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Comparison failed", zap.Error(err))
package logger
