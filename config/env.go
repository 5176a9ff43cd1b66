package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Secrets are exchange credentials. They never live in the sweep file.
type Secrets struct {
	APIKey    string
	SecretKey string
}

// LoadSecrets reads BINANCE_API_KEY and BINANCE_SECRET_KEY from the
// environment after loading the given .env files (".env" when none are
// given). A missing .env file is not an error; variables already set in
// the environment win.
func LoadSecrets(files ...string) (Secrets, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return Secrets{
		APIKey:    os.Getenv("BINANCE_API_KEY"),
		SecretKey: os.Getenv("BINANCE_SECRET_KEY"),
	}, nil
}
