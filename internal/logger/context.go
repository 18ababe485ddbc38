package logger

// Component-specific logger functions

// API returns a logger for HTTP boundary operations
func API() Logger {
	return WithField("component", "api")
}

// Auth returns a logger for identity verification operations
func Auth() Logger {
	return WithField("component", "auth")
}

// Service returns a logger for business service operations
func Service() Logger {
	return WithField("component", "service")
}

// Store returns a logger for persistence operations
func Store() Logger {
	return WithField("component", "store")
}

// CLI returns a logger for CLI operations
func CLI() Logger {
	return WithField("component", "cli")
}

// DB returns a logger for database connection operations
func DB() Logger {
	return WithField("component", "db")
}
