// Package elastic reads index settings and mappings from an Elasticsearch
// cluster through its REST API.
//
// Requests go through the Fiber HTTP client (fiber.Agent) with optional basic
// auth. Only the two read endpoints the schema extractor needs are exposed.
//
// # Usage
//
//	client := elastic.NewClient(cfg.Elastic)
//	mapping, err := client.Mapping(ctx, "orders")
package elastic
