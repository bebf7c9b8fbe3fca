package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/cli/output"
	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/core/service"
)

// tokenFlags override the configured key material for one call.
func tokenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "passphrase",
			Aliases: []string{"p"},
			Usage:   "Extra passphrase mixed into the token",
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "Access key id override (decimal)",
		},
		&cli.StringFlag{
			Name:  "cipher",
			Usage: "Cipher id override",
		},
		&cli.StringFlag{
			Name:  "signing",
			Usage: "Signing secret override (decimal)",
		},
	}
}

func expiryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "Token lifetime, overrides codec.token_lifetime",
		},
		&cli.StringFlag{
			Name:  "expires-at",
			Usage: "Absolute expiry (RFC3339)",
		},
	}
}

// callOptions collects the token and expiry flags that were set.
func callOptions(c *cli.Context) ([]service.CallOption, error) {
	var opts []service.CallOption
	if c.IsSet("passphrase") {
		opts = append(opts, service.WithPassphrase(c.String("passphrase")))
	}
	if c.IsSet("index") {
		opts = append(opts, service.WithIndex(c.String("index")))
	}
	if c.IsSet("cipher") {
		opts = append(opts, service.WithCipher(c.String("cipher")))
	}
	if c.IsSet("signing") {
		opts = append(opts, service.WithSigning(c.String("signing")))
	}

	ttl, at := c.IsSet("ttl"), c.IsSet("expires-at")
	switch {
	case ttl && at:
		return nil, domain.ErrInvalidInput.WithDetails("--ttl and --expires-at are mutually exclusive")
	case ttl:
		if c.Duration("ttl") <= 0 {
			return nil, domain.ErrInvalidInput.WithDetails("--ttl must be positive")
		}
		opts = append(opts, service.WithExpiry(time.Now().Add(c.Duration("ttl"))))
	case at:
		t, err := time.Parse(time.RFC3339, c.String("expires-at"))
		if err != nil {
			return nil, domain.ErrInvalidInput.WithDetails("--expires-at is not RFC3339").WithCause(err)
		}
		opts = append(opts, service.WithExpiry(t))
	}
	return opts, nil
}

// TokenOutput is the result of encode, handshake and link.
type TokenOutput struct {
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	Link  string `json:"link,omitempty" yaml:"link,omitempty"`
}

// DecodeOutput is the result of every verification command.
type DecodeOutput struct {
	Valid     bool       `json:"valid" yaml:"valid"`
	Data      string     `json:"data,omitempty" yaml:"data,omitempty"`
	Reason    string     `json:"reason,omitempty" yaml:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Bare      bool       `json:"bare,omitempty" yaml:"bare,omitempty"`
}

func newDecodeOutput(res service.Result) DecodeOutput {
	out := DecodeOutput{
		Valid:  res.Valid,
		Data:   res.Data,
		Reason: string(res.Reason),
		Bare:   res.Bare,
	}
	if !res.ExpiresAt.IsZero() {
		t := res.ExpiresAt.UTC()
		out.ExpiresAt = &t
	}
	return out
}

// showToken prints the bare token (or link) for table output so the
// command composes with shell pipelines.
func showToken(c *cli.Context, out TokenOutput) error {
	f, _ := output.ParseFormat(c.String("output"))
	if f != output.FormatTable {
		return show(c, out)
	}
	v := out.Token
	if out.Link != "" {
		v = out.Link
	}
	_, err := fmt.Fprintln(c.App.Writer, v)
	return err
}

// showResult prints the outcome and turns a rejected token into exit code
// ExitRejected.
func showResult(c *cli.Context, res service.Result) error {
	if err := show(c, newDecodeOutput(res)); err != nil {
		return err
	}
	if !res.Valid {
		return cli.Exit(fmt.Sprintf("token rejected: %s", res.Reason), ExitRejected)
	}
	return nil
}

func arg(c *cli.Context, i int, name string) (string, error) {
	if c.NArg() <= i {
		return "", domain.ErrMissingArgument.WithDetails(name)
	}
	return c.Args().Get(i), nil
}

// EncodeCommand returns the encode command.
func EncodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode data into a numeric token",
		ArgsUsage: "DATA",
		Flags:     append(tokenFlags(), expiryFlags()...),
		Action:    encodeAction,
	}
}

func encodeAction(c *cli.Context) error {
	data, err := arg(c, 0, "DATA")
	if err != nil {
		return err
	}
	opts, err := callOptions(c)
	if err != nil {
		return err
	}
	s, err := loadState(c)
	if err != nil {
		return err
	}
	codec, err := s.codec(c.Context)
	if err != nil {
		return err
	}

	token, err := codec.Encode(c.Context, data, opts...)
	if err != nil {
		return err
	}
	return showToken(c, TokenOutput{Token: token})
}

// DecodeCommand returns the decode command.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode and verify a token",
		ArgsUsage: "TOKEN",
		Flags:     tokenFlags(),
		Action:    decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	token, err := arg(c, 0, "TOKEN")
	if err != nil {
		return err
	}
	opts, err := callOptions(c)
	if err != nil {
		return err
	}
	s, err := loadState(c)
	if err != nil {
		return err
	}
	codec, err := s.codec(c.Context)
	if err != nil {
		return err
	}

	res, err := codec.Decode(c.Context, token, opts...)
	if err != nil {
		return err
	}
	return showResult(c, res)
}

// LinkCommand returns the link command.
func LinkCommand() *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Append a token for DATA to a URL",
		ArgsUsage: "DATA URL",
		Flags:     append(tokenFlags(), expiryFlags()...),
		Action:    linkAction,
	}
}

func linkAction(c *cli.Context) error {
	data, err := arg(c, 0, "DATA")
	if err != nil {
		return err
	}
	target, err := arg(c, 1, "URL")
	if err != nil {
		return err
	}
	opts, err := callOptions(c)
	if err != nil {
		return err
	}
	s, err := loadState(c)
	if err != nil {
		return err
	}
	codec, err := s.codec(c.Context)
	if err != nil {
		return err
	}

	link, err := codec.GenerateLink(c.Context, data, target, opts...)
	if err != nil {
		return err
	}
	return showToken(c, TokenOutput{Link: link})
}

// VerifyLinkCommand returns the verify-link command.
func VerifyLinkCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify-link",
		Usage:     "Verify the token carried by a link",
		ArgsUsage: "URL",
		Flags:     tokenFlags(),
		Action:    verifyLinkAction,
	}
}

func verifyLinkAction(c *cli.Context) error {
	link, err := arg(c, 0, "URL")
	if err != nil {
		return err
	}
	opts, err := callOptions(c)
	if err != nil {
		return err
	}
	s, err := loadState(c)
	if err != nil {
		return err
	}
	codec, err := s.codec(c.Context)
	if err != nil {
		return err
	}

	res, err := codec.ValidateLink(c.Context, link, opts...)
	if err != nil {
		return err
	}
	return showResult(c, res)
}
