package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configFile string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigFile sets the path of the config file to watch for log level
// changes at runtime. Empty disables hot reload.
func WithConfigFile(path string) Option {
	return func(a *application) {
		a.configFile = path
	}
}
