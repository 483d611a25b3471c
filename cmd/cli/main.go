// Command folioctl is the admin console for a folio server. With
// -create-admin it instead bootstraps an admin account directly in the
// database configured for the server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/folio/internal/client/cli"
	"github.com/dmitrijs2005/folio/internal/client/config"
	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server"
	serverconfig "github.com/dmitrijs2005/folio/internal/server/config"
	"github.com/dmitrijs2005/folio/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if cfg.CreateAdminEmail != "" {
		if err := createAdmin(ctx, cfg.CreateAdminEmail); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

func createAdmin(ctx context.Context, email string) error {
	scfg := serverconfig.LoadConfig()

	db, m, err := server.Open(ctx, scfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Password for %s: ", email)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer common.WipeByteArray(password)

	admin, err := services.NewUserService(db, m, scfg).CreateAdmin(ctx, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Admin %s created\n", admin.Email)
	return nil
}
