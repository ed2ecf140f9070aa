package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env chỉ có ở local, production đọc thẳng environment
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using system environment variables")
	}

	// Config, gin mode và logger được dựng trong Serve từ config.Load
	Serve()
}
