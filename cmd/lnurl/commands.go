package main

import (
	"fmt"

	"github.com/ellemouton/lnurl"
	"github.com/urfave/cli/v2"
)

var decodeCommand = &cli.Command{
	Name:      "decode",
	Usage:     "Decode an LNURL into its URL",
	ArgsUsage: "lnurl",
	Action: func(ctx *cli.Context) error {
		arg, err := requireArg(ctx, "lnurl")
		if err != nil {
			return err
		}

		u, err := lnurl.NewCodec(urlConfig(ctx)).Decode(arg)
		if err != nil {
			return err
		}

		fmt.Println(u)

		return nil
	},
}

var encodeCommand = &cli.Command{
	Name:      "encode",
	Usage:     "Encode a URL as an LNURL",
	ArgsUsage: "url",
	Action: func(ctx *cli.Context) error {
		arg, err := requireArg(ctx, "url")
		if err != nil {
			return err
		}

		l, err := lnurl.NewCodec(urlConfig(ctx)).Encode(arg)
		if err != nil {
			return err
		}

		fmt.Println(l)

		return nil
	},
}

var handleCommand = &cli.Command{
	Name:      "handle",
	Usage:     "Fetch the response behind an LNURL or lightning address",
	ArgsUsage: "lnurl",
	Action: func(ctx *cli.Context) error {
		arg, err := requireArg(ctx, "lnurl")
		if err != nil {
			return err
		}

		client, err := getClient(ctx)
		if err != nil {
			return err
		}

		resp, err := client.Handle(ctx.Context, arg)
		if err != nil {
			return err
		}

		return printResponse(ctx, resp)
	},
}

var executeCommand = &cli.Command{
	Name:  "execute",
	Usage: "Run the follow up request of an LNURL",
	Description: "The value is an amount in millisatoshis for pay " +
		"requests, an invoice for withdraw requests and a hex seed " +
		"for logins.",
	ArgsUsage: "lnurl value",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 2 {
			return fmt.Errorf("expected 2 arguments, got %d",
				ctx.NArg())
		}

		client, err := getClient(ctx)
		if err != nil {
			return err
		}

		resp, err := client.Execute(
			ctx.Context, ctx.Args().Get(0), ctx.Args().Get(1),
		)
		if err != nil {
			return err
		}

		return printResponse(ctx, resp)
	},
}

func requireArg(ctx *cli.Context, name string) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("expected a single %s argument", name)
	}

	return ctx.Args().First(), nil
}
