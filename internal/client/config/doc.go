// Package config loads runtime configuration for folioctl.
//
// Sources, later ones win: built-in defaults, an optional JSON file given
// with -c or -config, then command-line flags (-a, -t, -create-admin).
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s"
//	}
package config
