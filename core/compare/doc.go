// Package compare is the schema comparison engine.
//
// It takes two schema.TableStructure values and a TaskConfig and produces a
// schema.CompareResult. The engine is pure: it never connects to a store,
// never mutates its inputs, and the only shared state is the read-only
// TypeMappings dictionaries.
//
// # Pipeline
//
//  1. Table level: comments and extended properties. Severity is derived
//     from keywords in the property name (primary/unique are CRITICAL,
//     index/shard/replica/partition are WARNING).
//  2. Column level: missing columns (asymmetric: a column dropped from the
//     target is CRITICAL, an extra target column is a WARNING), type
//     compatibility through IsCompatible, then nullability, defaults,
//     auto-increment, length/precision/scale and comments.
//  3. Index level: primary keys pair with each other, the remaining indexes
//     match by column set, never by name. Skipped when either side is a
//     search engine or a Go struct.
//  4. Score: 10% table, 70% columns, 20% indexes.
//
// # Type compatibility
//
// Columns declare, per foreign system, which native types they are
// compatible with (schema.ColumnStructure.TypeMappings). Extractors fill these
// tables from TypeMappings, which holds many-to-many dictionaries such as
// keyword <-> varchar/char/enum. When either side is a search engine or a Go
// struct, a compatible column is considered fully matched.
//
// # Running tasks
//
// Runner resolves both sides of a Task through a Loader and compares them.
// CompareAll runs tasks on a bounded worker pool; a failing task is logged
// and skipped without aborting the batch.
//
// # Usage
//
//	engine := compare.NewEngine(nil)
//	result, err := engine.Compare(src, tgt, compare.TaskConfig{Name: "users"})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%.2f%%\n", result.MatchPercentage)
package compare
