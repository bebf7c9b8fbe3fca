package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/cli/output"
	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/core/service"
	"github.com/anonputraid/zetcipher/internal/resource"
)

// KeyOutput is the machine-readable result of `zetcipher key`.
type KeyOutput struct {
	Cipher        string `json:"cipher" yaml:"cipher"`
	AccessKeyID   string `json:"access_key_id" yaml:"access_key_id"`
	AccessKey     string `json:"access_key" yaml:"access_key"`
	SigningSecret string `json:"signing_secret" yaml:"signing_secret"`
	TokenLifetime int64  `json:"token_lifetime" yaml:"token_lifetime"`
	Bundle        string `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Imported      int    `json:"imported,omitempty" yaml:"imported,omitempty"`
}

// KeyCommand returns the key command.
func KeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "Generate a resource bundle and matching codec settings",
		Description: "Writes a fresh bundle (or imports it into the store with --store) and prints\n" +
			"the ZETCIPHER_* settings that select one of its ciphers.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Bundle file to create; never overwritten",
				Value: "resources.yaml",
			},
			&cli.IntFlag{
				Name:  "rows",
				Usage: "Number of ciphers in the bundle",
				Value: resource.DefaultRows,
			},
			&cli.StringFlag{
				Name:    "seal-passphrase",
				Usage:   "Seal the bundle file with this passphrase",
				EnvVars: []string{"ZETCIPHER_SEAL_PASSPHRASE"},
			},
			&cli.BoolFlag{
				Name:  "store",
				Usage: "Import the pools into the storage instead of writing a file",
			},
			&cli.DurationFlag{
				Name:  "lifetime",
				Usage: "Token lifetime to print",
				Value: service.DefaultTokenLifetime,
			},
		},
		Action: keyAction,
	}
}

func keyAction(c *cli.Context) error {
	if c.Int("rows") <= 0 {
		return domain.ErrInvalidInput.WithDetails("--rows must be positive")
	}
	lifetime := c.Duration("lifetime")
	if lifetime < time.Second {
		return domain.ErrInvalidInput.WithDetails("--lifetime must be at least 1s")
	}

	b, err := resource.Generate(c.Int("rows"), nil)
	if err != nil {
		return err
	}
	keys, err := resource.GenerateKeys(b, time.Now(), nil)
	if err != nil {
		return err
	}

	out := KeyOutput{
		Cipher:        keys.Cipher,
		AccessKeyID:   keys.AccessKeyID,
		AccessKey:     keys.AccessKey,
		SigningSecret: keys.SigningSecret,
		TokenLifetime: int64(lifetime / time.Second),
	}

	if c.Bool("store") {
		s, err := loadState(c)
		if err != nil {
			return err
		}
		kv, err := s.store()
		if err != nil {
			return err
		}
		if out.Imported, err = resource.NewRepository(kv).Import(c.Context, b, false); err != nil {
			return err
		}
		s.log.Info("resource pools imported", "ciphers", len(b.Ciphers()), "pools", out.Imported)
	} else {
		path := c.String("out")
		if err := resource.WriteFile(path, b, c.String("seal-passphrase")); err != nil {
			return err
		}
		out.Bundle = path
		fmt.Fprintf(c.App.ErrWriter, "wrote %d ciphers to %s\n", len(b.Ciphers()), path)
	}

	if f, _ := output.ParseFormat(c.String("output")); f != output.FormatTable {
		return show(c, out)
	}
	for _, line := range keys.Env(lifetime) {
		if _, err := fmt.Fprintln(c.App.Writer, line); err != nil {
			return err
		}
	}
	return nil
}
