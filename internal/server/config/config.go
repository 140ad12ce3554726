// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/avilov/authgate/internal/cryptox"
)

// Storage backend identifiers for Config.StorageBackend.
const (
	StorageFile = "file"
	StorageS3   = "s3"
)

// Config holds runtime settings for the Authgate server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP endpoint.
//   - StorageBackend: where the user collection blob lives ("file" or "s3").
//   - UsersFilePath: path of the users JSON file (file backend).
//   - SecretKey: HMAC secret for signing tokens (HS256). Do not use the
//     test default in prod.
//   - TokenValidity: lifetime of issued tokens.
//   - HashIterations: PBKDF2 work factor for password hashing.
//   - ThrottleWindow / ThrottleLimit: attempt budget per caller identity.
//   - CORSOrigins: allowed browser origins.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3Key: object storage settings.
type Config struct {
	ListenAddr     string
	StorageBackend string
	UsersFilePath  string
	SecretKey      string
	TokenValidity  time.Duration
	HashIterations int
	ThrottleWindow time.Duration
	ThrottleLimit  int
	CORSOrigins    []string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3Key          string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.StorageBackend = StorageFile
	c.UsersFilePath = "data/users.json"
	c.SecretKey = "devSecretKey"
	c.TokenValidity = 24 * time.Hour
	c.HashIterations = cryptox.DefaultIterations
	c.ThrottleWindow = 15 * time.Minute
	c.ThrottleLimit = 5
	c.CORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "authgate"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3Key = "users.json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
