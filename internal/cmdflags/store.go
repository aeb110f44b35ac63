package cmdflags

import (
	"github.com/taskdeck/taskdeck/auth"
	"github.com/urfave/cli/v2"
)

func StoreDir(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "store",
		Aliases:     []string{"s", "data"},
		Usage:       "Directory holding the task database",
		Destination: out,
		Value:       *out,
	}
}

func SigningKeyEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.SigningKeyEnvVar
	}
	return &cli.StringFlag{
		Name:        "signing-key-envvar-name",
		Usage:       "Name of the environment variable that holds the token signing key. The key itself should never be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
