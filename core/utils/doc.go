// Package utils provides common utility functions for the schema-compare application.
// It holds the loose type conversions used when catalog rows, JSON documents and
// struct tags deliver the same attribute in different Go types.
package utils
