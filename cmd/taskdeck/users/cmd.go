package users

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/taskdeck/taskdeck/auth"
	"github.com/taskdeck/taskdeck/internal/cmdflags"
	"github.com/taskdeck/taskdeck/taskstore"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var store *taskstore.Store
	storeDir := "taskdeck.data"
	return &cli.Command{
		Name:  "users",
		Usage: "Operator-side user management on the task database",
		Flags: []cli.Flag{
			cmdflags.StoreDir(&storeDir),
		},
		Before: func(ctx *cli.Context) error {
			var err error
			store, err = taskstore.Open(ctx.Context, storeDir)
			return err
		},
		After: func(ctx *cli.Context) error {
			if store == nil {
				return nil
			}
			return store.Close()
		},
		Subcommands: []*cli.Command{
			registerCmd(&store),
		},
	}
}

func registerCmd(store **taskstore.Store) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "Name of the user to register",
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				return sc.Err()
			}
			password := strings.TrimSpace(sc.Text())
			if len(password) == 0 {
				return errors.New("missing password from stdin")
			}
			_, err := auth.Register(ctx.Context, *store, username, password)
			return err
		},
	}
}
