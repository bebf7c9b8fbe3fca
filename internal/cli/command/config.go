package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/cli/output"
	"github.com/anonputraid/zetcipher/internal/server/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the merged configuration with secrets masked",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Load and verify the configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	s, err := loadState(c)
	if err != nil {
		return err
	}

	// A nested config reads poorly as a table.
	f, _ := output.ParseFormat(c.String("output"))
	if f == output.FormatTable {
		f = output.FormatYAML
	}
	return output.NewFormatter(f).Format(c.App.Writer, config.Sanitize(s.cfg))
}

func configValidate(c *cli.Context) error {
	s, err := loadState(c)
	if err != nil {
		return err
	}
	if _, err := s.cfg.Codec.Settings(); err != nil {
		return err
	}

	src := s.path
	if src == "" {
		src = "defaults and environment"
	}
	_, err = fmt.Fprintf(c.App.Writer, "configuration OK (%s)\n", src)
	return err
}
