package command

import (
	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/core/service"
	"github.com/anonputraid/zetcipher/internal/identity"
)

// HandshakeCommand returns the handshake command.
func HandshakeCommand() *cli.Command {
	return &cli.Command{
		Name:      "handshake",
		Usage:     "Issue a token bound to a registered identity",
		ArgsUsage: "IDENTITY [DATA]",
		Flags:     append(tokenFlags(), expiryFlags()...),
		Action:    handshakeAction,
	}
}

func handshakeAction(c *cli.Context) error {
	id, err := arg(c, 0, "IDENTITY")
	if err != nil {
		return err
	}
	data := c.Args().Get(1)
	opts, err := callOptions(c)
	if err != nil {
		return err
	}

	codec, err := identityCodec(c)
	if err != nil {
		return err
	}
	token, err := codec.Handshake(c.Context, id, data, opts...)
	if err != nil {
		return err
	}
	return showToken(c, TokenOutput{Token: token})
}

// VerifyHandshakeCommand returns the verify-handshake command.
func VerifyHandshakeCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify-handshake",
		Usage:     "Verify a handshake token on behalf of an identity",
		ArgsUsage: "TOKEN",
		Flags: append(tokenFlags(), &cli.StringFlag{
			Name:     "as",
			Usage:    "Identity presenting the token",
			Required: true,
		}),
		Action: verifyHandshakeAction,
	}
}

func verifyHandshakeAction(c *cli.Context) error {
	token, err := arg(c, 0, "TOKEN")
	if err != nil {
		return err
	}
	opts, err := callOptions(c)
	if err != nil {
		return err
	}

	codec, err := identityCodec(c)
	if err != nil {
		return err
	}
	ctx := identity.WithCaller(c.Context, c.String("as"))
	res, err := codec.VerifyHandshake(ctx, token, opts...)
	if err != nil {
		return err
	}
	return showResult(c, res)
}

func identityCodec(c *cli.Context) (*service.Codec, error) {
	s, err := loadState(c)
	if err != nil {
		return nil, err
	}
	dir, err := s.directory(c.Context)
	if err != nil {
		return nil, err
	}
	return s.codec(c.Context, service.WithIdentities(dir))
}
