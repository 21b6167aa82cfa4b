package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"PageIngest/internal/ports"
)

// ErrNotFound is returned when a secret is absent from both the environment and the env file.
var ErrNotFound = errors.New("secret not found")

// EnvProvider resolves secrets from the process environment first and a
// dotenv file second. The file is read once and never exported into the
// process environment.
type EnvProvider struct {
	lookup func(string) (string, bool)
	file   map[string]string
}

var _ ports.SecretsProvider = (*EnvProvider)(nil)

// NewEnvProvider reads envFile when it is set and exists. A missing file is
// not an error; a malformed one is.
func NewEnvProvider(envFile string) (*EnvProvider, error) {
	p := &EnvProvider{lookup: os.LookupEnv, file: map[string]string{}}
	if envFile == "" {
		return p, nil
	}

	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return p, nil
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}
	p.file = values
	return p, nil
}

// Secret returns the value registered under name.
func (p *EnvProvider) Secret(name string) (string, error) {
	if v, ok := p.lookup(name); ok && v != "" {
		return v, nil
	}
	if v, ok := p.file[name]; ok && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
