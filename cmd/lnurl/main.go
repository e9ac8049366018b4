package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btclog"
	"github.com/ellemouton/lnurl"
	"github.com/joho/godotenv"
	"github.com/lightninglabs/lndclient"
	"github.com/urfave/cli/v2"
)

func main() {
	// A .env file is optional, the environment always works.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fatal(err)
	}

	app := cli.NewApp()

	app.Name = "lnurl"
	app.Usage = "Encode, decode and use LNURLs"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "strict-rfc3986",
			Usage:   "reject URLs that are not RFC3986 compliant",
			EnvVars: []string{"LNURL_STRICT_RFC3986"},
		},
		&cli.StringFlag{
			Name:    "debuglevel",
			Value:   "info",
			Usage:   "log level: trace, debug, info, warn, error",
			EnvVars: []string{"LNURL_DEBUGLEVEL"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   lnurl.DefaultTimeout,
			Usage:   "timeout of requests to services",
			EnvVars: []string{"LNURL_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "useragent",
			Value:   lnurl.DefaultUserAgent,
			Usage:   "user agent sent to services",
			EnvVars: []string{"LNURL_USER_AGENT"},
		},
		&cli.BoolFlag{
			Name:    "insecure",
			Usage:   "skip TLS certificate verification",
			EnvVars: []string{"LNURL_INSECURE"},
		},
		&cli.BoolFlag{
			Name:  "snake",
			Usage: "print responses with snake_case keys",
		},
		&cli.StringFlag{
			Name:    "network",
			Value:   "mainnet",
			Usage:   "the network invoices are for",
			EnvVars: []string{"LNURL_NETWORK"},
		},
	}
	app.Before = setupLogging
	app.Commands = []*cli.Command{
		decodeCommand,
		encodeCommand,
		handleCommand,
		executeCommand,
		payCommand,
	}

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[lnurl] %v\n", err)
	os.Exit(1)
}

func setupLogging(ctx *cli.Context) error {
	level, ok := btclog.LevelFromString(ctx.String("debuglevel"))
	if !ok {
		return fmt.Errorf("unknown log level %q",
			ctx.String("debuglevel"))
	}

	logger := btclog.NewBackend(os.Stderr).Logger(lnurl.Subsystem)
	logger.SetLevel(level)
	lnurl.UseLogger(logger)

	return nil
}

func urlConfig(ctx *cli.Context) *lnurl.Config {
	return &lnurl.Config{
		StrictRFC3986: ctx.Bool("strict-rfc3986"),
	}
}

func getClient(ctx *cli.Context) (*lnurl.Client, error) {
	params, err := netParams(ctx.String("network"))
	if err != nil {
		return nil, err
	}

	return lnurl.NewClient(&lnurl.ClientConfig{
		URLConfig:          urlConfig(ctx),
		UserAgent:          ctx.String("useragent"),
		Timeout:            ctx.Duration("timeout"),
		InsecureSkipVerify: ctx.Bool("insecure"),
		Net:                params,
	}), nil
}

func netParams(network string) (*chaincfg.Params, error) {
	switch lndclient.Network(network) {
	case lndclient.NetworkMainnet:
		return &chaincfg.MainNetParams, nil
	case lndclient.NetworkTestnet:
		return &chaincfg.TestNet3Params, nil
	case lndclient.NetworkRegtest:
		return &chaincfg.RegressionNetParams, nil
	case lndclient.NetworkSimnet:
		return &chaincfg.SimNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	}

	return nil, fmt.Errorf("unknown network %q", network)
}

func printResponse(ctx *cli.Context, resp lnurl.Response) error {
	style := lnurl.CamelCase
	if ctx.Bool("snake") {
		style = lnurl.SnakeCase
	}

	b, err := lnurl.Marshal(resp, style)
	if err != nil {
		return err
	}

	fmt.Println(string(b))

	return nil
}
