package config

// ServerConfig holds configuration for the results viewer
type ServerConfig struct {
	Port string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("LIBCHECK_PORT")
	if port == "" {
		port = "8090" // the page under test usually holds 8001
	}

	return ServerConfig{
		Port: port,
	}
}
