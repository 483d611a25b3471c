package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/folio/internal/flagx"
)

var allowedFlags = []string{
	"-a", "-w", "-driver", "-d", "-s", "-t", "-r",
	"-m", "-u", "-p", "-b", "-g", "-e",
	"-profile", "-assets", "-log-level", "-log-file",
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        gRPC bind address (e.g., ":50051")
//	-w string        HTTP bind address (e.g., ":8080")
//	-driver string   database driver: postgres or sqlite
//	-d string        database DSN
//	-s string        JWT HMAC secret key
//	-t int           access token validity, minutes
//	-r int           refresh token validity, minutes
//	-m string        media backend: s3, cloudinary or empty
//	-u, -p string    S3 root user and password
//	-b string        S3 bucket name
//	-g string        S3 region
//	-e string        S3 base endpoint
//	-profile string  site profile YAML
//	-assets string   directory with resume.pdf and certificate.pdf
//	-log-level, -log-file string
//
// Unknown flags are dropped with flagx.FilterArgs so that -c/-config and
// flags of other components do not collide.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, allowedFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.GRPCAddr, "a", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.HTTPAddr, "w", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.MediaBackend, "m", config.MediaBackend, "media backend")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.ProfileFile, "profile", config.ProfileFile, "site profile YAML")
	fs.StringVar(&config.AssetsDir, "assets", config.AssetsDir, "assets directory")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogFile, "log-file", config.LogFile, "log file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
