package config

import (
	"blog-backend/internal/infrastructure/database"
)

// DatabaseConfig chuyển MongoConfig sang config của database package
func (c *Config) DatabaseConfig() *database.MongoConfig {
	return &database.MongoConfig{
		URI:            c.Mongo.URI,
		Database:       c.Mongo.Database,
		ConnectTimeout: c.Mongo.ConnectTimeout,
		MaxRetries:     c.Mongo.MaxRetries,
		RetryDelay:     c.Mongo.RetryDelay,
	}
}
