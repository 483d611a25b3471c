package config

import "github.com/dmitrijs2005/folio/internal/flagx"

// parseEnv applies secrets and hosting settings from the environment.
// It runs last, so deployments can keep keys out of files and argv.
func parseEnv(config *Config) {
	flagx.EnvString(&config.DatabaseDSN, "DATABASE_DSN")
	flagx.EnvString(&config.RazorpayKeyID, "RAZORPAY_KEY_ID")
	flagx.EnvString(&config.RazorpayKeySecret, "RAZORPAY_KEY_SECRET")
	flagx.EnvString(&config.RazorpayWebhookSecret, "RAZORPAY_WEBHOOK_SECRET")
	flagx.EnvString(&config.CloudinaryCloudName, "CLOUDINARY_CLOUD_NAME")
	flagx.EnvString(&config.CloudinaryUploadPreset, "CLOUDINARY_UPLOAD_PRESET")
	flagx.EnvString(&config.S3RootUser, "S3_ROOT_USER")
	flagx.EnvString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
}
