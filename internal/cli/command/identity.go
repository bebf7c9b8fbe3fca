package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/identity"
)

// IdentityCommand returns the identity subcommand group.
func IdentityCommand() *cli.Command {
	return &cli.Command{
		Name:    "identity",
		Aliases: []string{"id"},
		Usage:   "Manage the identities handshake tokens can be bound to",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register an identity",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "note",
						Usage: "Free-form description",
					},
				},
				Action: identityAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Unregister an identity",
				ArgsUsage: "ID",
				Action:    identityRemove,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List registered identities",
				Action:  identityList,
			},
		},
	}
}

func openDirectory(c *cli.Context) (*identity.Directory, error) {
	s, err := loadState(c)
	if err != nil {
		return nil, err
	}
	return s.directory(c.Context)
}

func identityAdd(c *cli.Context) error {
	id, err := arg(c, 0, "ID")
	if err != nil {
		return err
	}
	dir, err := openDirectory(c)
	if err != nil {
		return err
	}

	rec, err := dir.Add(c.Context, id, c.String("note"))
	if err != nil {
		return err
	}
	return show(c, rec)
}

func identityRemove(c *cli.Context) error {
	id, err := arg(c, 0, "ID")
	if err != nil {
		return err
	}
	dir, err := openDirectory(c)
	if err != nil {
		return err
	}

	if err := dir.Remove(c.Context, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "identity %s removed\n", id)
	return err
}

func identityList(c *cli.Context) error {
	dir, err := openDirectory(c)
	if err != nil {
		return err
	}

	recs, err := dir.List(c.Context)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []identity.Record{}
	}
	return show(c, recs)
}
