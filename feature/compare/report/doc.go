// Package report renders comparison results.
//
// Log writes the per-task verdicts and difference summaries through zap,
// Markdown renders a document with one section per task, and Publisher
// uploads that document to the storage bucket.
package report
