package compare

// Config holds the comparison settings.
type Config struct {
	// TasksFile is the YAML task file. A "storage://bucket/key" value is fetched from object storage.
	TasksFile string `mapstructure:"tasks_file" default:"compare.yaml"`
	// TasksJSONFile is read only when no YAML task file could be loaded.
	TasksJSONFile string `mapstructure:"tasks_json_file" default:"compare.json"`
	// Workers bounds how many tasks run at the same time.
	Workers int `mapstructure:"workers" default:"4"`
	// AutoCompareOnStartup runs every task when the server starts.
	AutoCompareOnStartup bool `mapstructure:"auto_compare_on_startup" default:"false"`
	// Verbose adds per-property detail to the log report.
	Verbose bool `mapstructure:"verbose" default:"false"`
	// Markdown enables the markdown report file.
	Markdown bool `mapstructure:"markdown" default:"false"`
	// MarkdownPath is where the markdown report is written.
	MarkdownPath string `mapstructure:"markdown_path" default:"compare-results.md"`
	// Upload publishes the markdown report to the storage bucket.
	Upload bool `mapstructure:"upload" default:"false"`
	// UploadPrefix is the object key prefix for uploaded reports.
	UploadPrefix string `mapstructure:"upload_prefix" default:"reports/"`
	// CacheTTLSeconds keeps extracted structures for reuse. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"0"`
}
