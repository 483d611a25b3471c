package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/folio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string             address and port of the content API
//	-t int                request timeout (in seconds)
//	-create-admin string  create an admin with this email and exit
//
// os.Args is filtered with flagx.FilterArgs first, so server flags given to
// -create-admin do not trip this parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-create-admin"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.CreateAdminEmail, "create-admin", cfg.CreateAdminEmail, "create an admin account with this email")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
