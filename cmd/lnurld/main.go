package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/btcsuite/btclog"
	"github.com/ellemouton/lnurl"
	"github.com/joho/godotenv"
	"github.com/lightninglabs/lndclient"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fatal(err)
	}

	app := cli.NewApp()

	app.Name = "lnurld"
	app.Usage = "Static LNURL-pay server backed by lnd"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "baseurl",
			Value:   "http://localhost:8080",
			Usage:   "public URL the server is reached at",
			EnvVars: []string{"LNURLD_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "listen",
			Value:   ":8080",
			Usage:   "address to listen on",
			EnvVars: []string{"LNURLD_LISTEN"},
		},
		&cli.Uint64Flag{
			Name:    "minsendable",
			Value:   1000,
			Usage:   "smallest payment accepted, in millisats",
			EnvVars: []string{"LNURLD_MIN_SENDABLE"},
		},
		&cli.Uint64Flag{
			Name:    "maxsendable",
			Value:   100_000_000,
			Usage:   "largest payment accepted, in millisats",
			EnvVars: []string{"LNURLD_MAX_SENDABLE"},
		},
		&cli.StringFlag{
			Name:    "description",
			Value:   "LNURL-pay",
			Usage:   "description shown to payers",
			EnvVars: []string{"LNURLD_DESCRIPTION"},
		},
		&cli.Uint64Flag{
			Name:    "commentallowed",
			Usage:   "longest payer comment accepted",
			EnvVars: []string{"LNURLD_COMMENT_ALLOWED"},
		},
		&cli.StringFlag{
			Name:    "successmessage",
			Usage:   "message shown to payers after payment",
			EnvVars: []string{"LNURLD_SUCCESS_MESSAGE"},
		},
		&cli.DurationFlag{
			Name:    "paymentexpiry",
			Value:   lnurl.DefaultPaymentExpiry,
			Usage:   "how long a pay request stays valid",
			EnvVars: []string{"LNURLD_PAYMENT_EXPIRY"},
		},
		&cli.BoolFlag{
			Name:    "strict-rfc3986",
			Usage:   "reject URLs that are not RFC3986 compliant",
			EnvVars: []string{"LNURL_STRICT_RFC3986"},
		},
		&cli.StringFlag{
			Name:    "debuglevel",
			Value:   "info",
			Usage:   "log level: trace, debug, info, warn, error",
			EnvVars: []string{"LNURLD_DEBUGLEVEL"},
		},
		&cli.StringFlag{
			Name:    "lndhost",
			Value:   "localhost:10009",
			Usage:   "lnd instance rpc address",
			EnvVars: []string{"LNURLD_LND_HOST"},
		},
		&cli.StringFlag{
			Name:    "network",
			Value:   "mainnet",
			Usage:   "the network",
			EnvVars: []string{"LNURLD_NETWORK"},
		},
		&cli.StringFlag{
			Name:    "macpath",
			Usage:   "Path to lnd's mac dir",
			EnvVars: []string{"LNURLD_LND_MACAROON_DIR"},
		},
		&cli.StringFlag{
			Name:    "tlspath",
			Usage:   "Path to lnd's tls cert",
			EnvVars: []string{"LNURLD_LND_TLS_PATH"},
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[lnurld] %v\n", err)
	os.Exit(1)
}

func run(ctx *cli.Context) error {
	level, ok := btclog.LevelFromString(ctx.String("debuglevel"))
	if !ok {
		return fmt.Errorf("unknown log level %q",
			ctx.String("debuglevel"))
	}

	backend := btclog.NewBackend(os.Stdout)
	logger := backend.Logger(lnurl.Subsystem)
	logger.SetLevel(level)
	lnurl.UseLogger(logger)

	mainLog := backend.Logger("LNRD")
	mainLog.SetLevel(level)

	// Connect to LND.
	lnd, err := lndclient.NewLndServices(&lndclient.LndServicesConfig{
		LndAddress:  ctx.String("lndhost"),
		Network:     lndclient.Network(ctx.String("network")),
		MacaroonDir: ctx.String("macpath"),
		TLSPath:     ctx.String("tlspath"),
	})
	if err != nil {
		return fmt.Errorf("could not connect to LND: %w", err)
	}
	defer lnd.Close()

	info, err := lnd.Client.GetInfo(ctx.Context)
	if err != nil {
		return err
	}

	mainLog.Infof("Connected to node with alias: %v", info.Alias)

	server, err := lnurl.NewServer(&lnurl.ServerConfig{
		BaseURL:        ctx.String("baseurl"),
		ListenAddr:     ctx.String("listen"),
		MinSendable:    lnwire.MilliSatoshi(ctx.Uint64("minsendable")),
		MaxSendable:    lnwire.MilliSatoshi(ctx.Uint64("maxsendable")),
		Description:    ctx.String("description"),
		CommentAllowed: ctx.Uint64("commentallowed"),
		SuccessMessage: ctx.String("successmessage"),
		PaymentExpiry:  ctx.Duration("paymentexpiry"),
		URLConfig: &lnurl.Config{
			StrictRFC3986: ctx.Bool("strict-rfc3986"),
		},
	}, lnd.Client)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(
		ctx.Context, os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	return server.Run(runCtx)
}
