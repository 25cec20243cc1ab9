// Package compare exposes the comparison engine as a service.
//
// Tasks come from CompareConfig entries: a name, a source and a target data
// source, and the table pairs to compare. TaskSource merges entries
// registered in code with the YAML task file, falling back to the JSON file
// only when the YAML file yields nothing. Either file may live in object
// storage ("storage://bucket/key").
//
// Service resolves both sides of each pair through the extract registry and
// runs them on the engine's worker pool. Handler serves it under /compare:
//
//	GET  /compare/tasks
//	POST /compare/run
//	POST /compare/run/:name
//	POST /compare/tables
package compare
