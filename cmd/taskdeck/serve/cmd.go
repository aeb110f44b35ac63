package serve

import (
	"os"

	"github.com/taskdeck/taskdeck/auth"
	authapi "github.com/taskdeck/taskdeck/auth/api"
	"github.com/taskdeck/taskdeck/internal/cmdflags"
	"github.com/taskdeck/taskdeck/internal/httpserver"
	"github.com/taskdeck/taskdeck/taskstore"
	taskapi "github.com/taskdeck/taskdeck/taskstore/api"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:7020"
	storeDir := "taskdeck.data"
	keyEnvVar := auth.SigningKeyEnvVar
	tokenTTL := auth.DefaultTTL
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the task API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind and export the task API",
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			cmdflags.StoreDir(&storeDir),
			cmdflags.SigningKeyEnvVar(&keyEnvVar),
			&cli.DurationFlag{
				Name:        "token-ttl",
				Usage:       "How long issued bearer tokens remain valid",
				Value:       tokenTTL,
				Destination: &tokenTTL,
			},
		},
		Action: func(ctx *cli.Context) error {
			key, err := auth.KeyFromEnv(keyEnvVar, os.Getenv, os.Setenv)
			if err != nil {
				return err
			}
			store, err := taskstore.Open(ctx.Context, storeDir)
			if err != nil {
				return err
			}
			defer store.Close()
			issuer := auth.NewIssuer(key, tokenTTL)
			realm := authapi.NewRealm(store, issuer, auth.InMemoryPrincipalCache())
			tasks := taskapi.AsHandler(ctx.Context, store)
			handler := authapi.AsHandler(ctx.Context, store, issuer, realm.Protect(tasks))
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}
