package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Ingestion configuration
	FetchTimeout    int // seconds
	RefreshInterval int // seconds, how long before a feed is due again
	WorkerCount     int
	TickInterval    int // seconds, scheduler tick

	// Enrichment configuration
	EnrichmentAPIKey string
	EnrichmentModel  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
