package cfg

type Cfg struct {
	// Catalog data paths
	CatalogFile   string
	ReportFile    string
	CategoriesDir string
	DBPath        string
	LogDir        string

	// Normalization settings
	CurrencySymbol string
	ContactPhone   string
	Greeting       string

	// Application configuration
	Port         string
	APIAccessKey string
	Serve        bool
	SyncInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
