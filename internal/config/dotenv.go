package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotenvFiles are checked in order. The earlier file takes priority
// because godotenv never overwrites a variable that is already set, which
// also keeps real environment variables ahead of any file value.
var dotenvFiles = []string{".env.local", ".env"}

// LoadDotEnv loads the dotenv files present in the working directory and
// returns the names of the files it found.
func LoadDotEnv() []string {
	var found []string
	for _, name := range dotenvFiles {
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	if len(found) > 0 {
		_ = godotenv.Load(found...)
	}
	return found
}
