package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/resource"
)

// InspectOutput summarises a bundle file.
type InspectOutput struct {
	File       string `json:"file" yaml:"file"`
	Sealed     bool   `json:"sealed" yaml:"sealed"`
	Ciphers    int    `json:"ciphers" yaml:"ciphers"`
	Complete   int    `json:"complete" yaml:"complete"`
	Canonical  int    `json:"canonical" yaml:"canonical"`
	Encryption int    `json:"encryption_pools" yaml:"encryption_pools"`
	Secret     int    `json:"secret_pools" yaml:"secret_pools"`
	Hide       int    `json:"hide_pools" yaml:"hide_pools"`
}

func passphraseFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:    "passphrase",
		Aliases: []string{"p"},
		Usage:   usage,
		EnvVars: []string{"ZETCIPHER_RESOURCES__PASSPHRASE"},
	}
}

// ResourceCommand returns the resource subcommand group.
func ResourceCommand() *cli.Command {
	return &cli.Command{
		Name:  "resource",
		Usage: "Inspect, seal and store resource bundles",
		Subcommands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "Check a bundle file and count its pools",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					passphraseFlag("Passphrase of a sealed bundle"),
					&cli.StringFlag{
						Name:  "cipher",
						Usage: "Show the pools of one cipher with their permutation index",
					},
				},
				Action:    resourceInspect,
			},
			{
				Name:      "seal",
				Usage:     "Encrypt a plain bundle file",
				ArgsUsage: "IN OUT",
				Flags: []cli.Flag{
					passphraseFlag("Seal passphrase (at least 8 characters)"),
					&cli.StringFlag{
						Name:  "algorithm",
						Usage: "aes-gcm or chacha20-poly1305; defaults to the faster one on this CPU",
					},
				},
				Action: resourceSeal,
			},
			{
				Name:      "unseal",
				Usage:     "Decrypt a sealed bundle file",
				ArgsUsage: "IN OUT",
				Flags:     []cli.Flag{passphraseFlag("Seal passphrase")},
				Action:    resourceUnseal,
			},
			{
				Name:      "import",
				Usage:     "Copy the pools of a bundle file into the storage",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					passphraseFlag("Passphrase of a sealed bundle"),
					&cli.BoolFlag{
						Name:  "keep",
						Usage: "Keep pools already stored for the same cipher",
					},
				},
				Action: resourceImport,
			},
			{
				Name:      "export",
				Usage:     "Write the stored pools to a bundle file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "seal-passphrase",
						Usage: "Seal the exported file with this passphrase",
					},
				},
				Action: resourceExport,
			},
		},
	}
}

func resourceInspect(c *cli.Context) error {
	path, err := arg(c, 0, "FILE")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	b, err := resource.ParseBundle(data, c.String("passphrase"))
	if err != nil {
		return err
	}
	s, err := b.Store()
	if err != nil {
		return err
	}

	if c.IsSet("cipher") {
		pools, err := s.Inspect(c.String("cipher"))
		if err != nil {
			return err
		}
		return show(c, pools)
	}

	canonical := 0
	for _, cipher := range s.Ciphers() {
		ok, err := s.Canonical(cipher)
		if err != nil {
			return err
		}
		if ok {
			canonical++
		}
	}

	return show(c, InspectOutput{
		File:       path,
		Sealed:     resource.IsSealed(data),
		Ciphers:    len(b.Ciphers()),
		Complete:   len(s.Ciphers()),
		Canonical:  canonical,
		Encryption: len(b.Encryption),
		Secret:     len(b.Secret),
		Hide:       len(b.Hide),
	})
}

func resourceSeal(c *cli.Context) error {
	in, out, err := inOut(c)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if resource.IsSealed(data) {
		return domain.ErrInvalidInput.WithDetailsf("%s is already sealed", in)
	}
	// Refuse to seal something that would not load afterwards.
	if _, err := resource.ParseBundle(data, ""); err != nil {
		return err
	}

	algo := resource.DefaultAlgorithm()
	if c.IsSet("algorithm") {
		algo = resource.Algorithm(c.String("algorithm"))
	}
	sealed, err := resource.Seal(data, []byte(c.String("passphrase")), algo)
	if err != nil {
		return err
	}
	if err := writeNew(out, sealed); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "sealed %s -> %s (%s)\n", in, out, algo)
	return err
}

func resourceUnseal(c *cli.Context) error {
	in, out, err := inOut(c)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	plain, err := resource.Open(data, []byte(c.String("passphrase")))
	if err != nil {
		return err
	}
	if err := writeNew(out, plain); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "unsealed %s -> %s\n", in, out)
	return err
}

func resourceImport(c *cli.Context) error {
	path, err := arg(c, 0, "FILE")
	if err != nil {
		return err
	}
	b, err := resource.LoadFile(path, c.String("passphrase"))
	if err != nil {
		return err
	}

	s, err := loadState(c)
	if err != nil {
		return err
	}
	kv, err := s.store()
	if err != nil {
		return err
	}
	n, err := resource.NewRepository(kv).Import(c.Context, b, c.Bool("keep"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "imported %d pools from %s\n", n, path)
	return err
}

func resourceExport(c *cli.Context) error {
	path, err := arg(c, 0, "FILE")
	if err != nil {
		return err
	}
	s, err := loadState(c)
	if err != nil {
		return err
	}
	kv, err := s.store()
	if err != nil {
		return err
	}

	b, err := resource.NewRepository(kv).Export(c.Context)
	if err != nil {
		return err
	}
	if err := resource.WriteFile(path, b, c.String("seal-passphrase")); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "exported %d ciphers to %s\n", len(b.Ciphers()), path)
	return err
}

func inOut(c *cli.Context) (string, string, error) {
	in, err := arg(c, 0, "IN")
	if err != nil {
		return "", "", err
	}
	out, err := arg(c, 1, "OUT")
	if err != nil {
		return "", "", err
	}
	return in, out, nil
}

// writeNew creates path with owner-only permissions and fails if it exists.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
