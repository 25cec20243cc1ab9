// Package config provides configuration management for schema-compare.
//
// Values come from the environment, optionally seeded from a .env file, with
// defaults taken from the `default` struct tags of every section.
//
// # Configuration Structure
//
//   - Server: listen address and API key
//   - Storage: S3/MinIO credentials and the bucket for task files and reports
//   - Log: logging level and format
//   - Database: the default relational connection
//   - Elastic: the default search endpoint
//   - Compare: task files, worker count, report output and the extraction cache
//
// Nested keys map to upper-case variables joined by underscores, so
// compare.workers is read from COMPARE_WORKERS.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Compare.TasksFile)
package config
