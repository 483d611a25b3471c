package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/folio/internal/flagx"
	"github.com/dmitrijs2005/folio/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations are
// timex.Duration so both "1m" and integer nanoseconds are accepted.
// Zero values leave the corresponding Config field untouched.
type JsonConfig struct {
	HTTPAddr                     string         `json:"http_addr"`
	GRPCAddr                     string         `json:"grpc_addr"`
	DatabaseDriver               string         `json:"database_driver"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	SessionKey                   string         `json:"session_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`

	MediaBackend           string `json:"media_backend"`
	S3RootUser             string `json:"s3_root_user"`
	S3RootPassword         string `json:"s3_root_password"`
	S3Bucket               string `json:"s3_bucket"`
	S3Region               string `json:"s3_region"`
	S3BaseEndpoint         string `json:"s3_base_endpoint"`
	S3PublicBaseURL        string `json:"s3_public_base_url"`
	CloudinaryCloudName    string `json:"cloudinary_cloud_name"`
	CloudinaryUploadPreset string `json:"cloudinary_upload_preset"`

	RazorpayKeyID string `json:"razorpay_key_id"`
	Currency      string `json:"currency"`

	ProfileFile    string         `json:"profile_file"`
	AssetsDir      string         `json:"assets_dir"`
	TickerURL      string         `json:"ticker_url"`
	TickerInterval timex.Duration `json:"ticker_interval"`
	CacheSize      int            `json:"cache_size"`
	Workers        int            `json:"workers"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	LogFile   string `json:"log_file"`
}

// parseJson overlays values from the file named by -c/-config in args.
// Without the flag nothing is loaded. An unreadable file or invalid JSON
// panics, as configuration errors are fatal at startup.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFileFlag(args)

	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SessionKey, c.SessionKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}

	setString(&config.MediaBackend, c.MediaBackend)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.CloudinaryCloudName, c.CloudinaryCloudName)
	setString(&config.CloudinaryUploadPreset, c.CloudinaryUploadPreset)

	setString(&config.RazorpayKeyID, c.RazorpayKeyID)
	setString(&config.Currency, c.Currency)

	setString(&config.ProfileFile, c.ProfileFile)
	setString(&config.AssetsDir, c.AssetsDir)
	setString(&config.TickerURL, c.TickerURL)
	if c.TickerInterval.Duration > 0 {
		config.TickerInterval = c.TickerInterval.Duration
	}
	if c.CacheSize > 0 {
		config.CacheSize = c.CacheSize
	}
	if c.Workers > 0 {
		config.Workers = c.Workers
	}

	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogFile, c.LogFile)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
