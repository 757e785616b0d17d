package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when Load is called without files
const DefaultEnvFile = ".env"

// Config holds the settings shared by all commands. Flags override fields
// after Load.
type Config struct {
	JhoveBin    string
	VeraPDFBin  string
	DatabaseURL string
	Addr        string
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		JhoveBin:    "jhove",
		VeraPDFBin:  "verapdf",
		DatabaseURL: "",
		Addr:        ":8080",
	}
}

// Load builds a fresh Config from the process environment, falling back to
// the given .env files and then to defaults. Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}

	fileVars := make(map[string]string)
	for _, path := range envFiles {
		vars, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range vars {
			if _, ok := fileVars[k]; !ok {
				fileVars[k] = v
			}
		}
	}

	lookup := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v := fileVars[key]; v != "" {
			return v
		}
		return fallback
	}

	def := Default()
	return &Config{
		JhoveBin:    lookup("JHOVE_BIN", def.JhoveBin),
		VeraPDFBin:  lookup("VERAPDF_BIN", def.VeraPDFBin),
		DatabaseURL: lookup("DATABASE_URL", def.DatabaseURL),
		Addr:        lookup("ADDR", def.Addr),
	}, nil
}
