package command

import (
	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/cli/output"
	"github.com/anonputraid/zetcipher/internal/infra/buildinfo"
)

// Exit codes.
const (
	ExitError    = 1
	ExitRejected = 2
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "zetcipher",
		Usage:   "Reversible numeric token codec",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			KeyCommand(),
			EncodeCommand(),
			DecodeCommand(),
			LinkCommand(),
			VerifyLinkCommand(),
			HandshakeCommand(),
			VerifyHandshakeCommand(),
			IdentityCommand(),
			ResourceCommand(),
			ConfigCommand(),
			ServeCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			_, err := output.ParseFormat(c.String("output"))
			return err
		},
		After: func(c *cli.Context) error {
			return closeRuntime(c)
		},
		// main decides the process exit code.
		ExitErrHandler:       func(*cli.Context, error) {},
		EnableBashCompletion: true,
	}

	return app
}

// globalFlags returns the flags available to every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"ZETCIPHER_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Storage directory for identities and stored resources",
		},
		&cli.StringFlag{
			Name:  "resources",
			Usage: "Resource bundle file",
		},
		&cli.StringFlag{
			Name:  "resource-source",
			Usage: "Where pools come from: file or store",
		},
	}
}

// flagLayer maps the explicitly set global flags onto configuration keys.
// Unset flags leave the lower layers alone.
func flagLayer(c *cli.Context) map[string]any {
	keys := map[string]string{
		"log-level":       "log.level",
		"data-dir":        "storage.data_dir",
		"resources":       "resources.file",
		"resource-source": "resources.source",
	}

	layer := make(map[string]any)
	for name, key := range keys {
		if c.IsSet(name) {
			layer[key] = c.String(name)
		}
	}
	return layer
}

// printer returns the formatter selected by --output.
func printer(c *cli.Context) output.Formatter {
	f, err := output.ParseFormat(c.String("output"))
	if err != nil {
		f = output.FormatTable
	}
	return output.NewFormatter(f)
}

func show(c *cli.Context, v any) error {
	return printer(c).Format(c.App.Writer, v)
}
