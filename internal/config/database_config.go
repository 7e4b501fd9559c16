package config

type DatabaseConfig interface {
	GetDBDriver() string
	GetDBDSN() string
}

type Database struct{}

var _ DatabaseConfig = Database{}

// GetDBDriver is "sqlite3" or "postgres".
func (Database) GetDBDriver() string {
	return GetEnv("DB_DRIVER", "sqlite3")
}

func (Database) GetDBDSN() string {
	return GetEnv("DB_DSN", "./data/villa.db")
}
