// Package config handles configuration for the ledger server: defaults,
// an optional JSON/JSONC/YAML file overlay, then command-line flags.
package config

import "time"

// Config holds runtime settings for the ledger server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabaseDSN: postgres:// URL (pgx) or a sqlite file path.
//   - SecretKey: HMAC secret for identity tokens (HS256).
//   - OwnerAddress: the fixed Owner identity, never stored in the directory.
//   - TokenValidityDuration: lifetime of minted tokens; zero means no expiry.
//   - S3*: object storage for snapshots. An empty bucket disables export.
type Config struct {
	EndpointAddrGRPC      string
	DatabaseDSN           string
	SecretKey             string
	OwnerAddress          string
	TokenValidityDuration time.Duration
	S3RootUser            string
	S3RootPassword        string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
	SnapshotPrefix        string
	LogLevel              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret and the owner address must be overridden in production.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "taskledger.db"
	c.EndpointAddrGRPC = ":50051"
	c.SecretKey = "secretKey"
	c.OwnerAddress = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	c.TokenValidityDuration = 24 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SnapshotPrefix = "snapshots"
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the config file named by -c/-config
// (or $TASKLEDGER_CONFIG), then flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
