package elastic

// Config holds the default search-engine endpoint.
type Config struct {
	// URL is the base address of the cluster.
	URL string `mapstructure:"url" default:"http://localhost:9200"`
	// Username enables basic auth when set.
	Username string `mapstructure:"username" default:""`
	// Password is the basic auth password.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds bounds every request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
