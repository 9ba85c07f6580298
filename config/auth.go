package config

// GetAuthSkipperPaths lists routes the API auth middleware must not guard.
func GetAuthSkipperPaths() []string {
	return []string{
		"/health",
		"/graphql",
		"/playground",
	}
}
