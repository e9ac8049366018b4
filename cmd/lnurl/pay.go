package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/ellemouton/lnurl"
	"github.com/lightninglabs/lndclient"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/urfave/cli/v2"
)

var payCommand = &cli.Command{
	Name:        "pay",
	Usage:       "Pay to LNURL",
	Description: `Pay to an LNURL-pay link or lightning address with lnd`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "lnurl",
			Usage:    "The LNURL or lightning address to pay to.",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "amt",
			Usage: "The amt of millisats to pay",
		},
		&cli.StringFlag{
			Name:  "comment",
			Usage: "A comment for the service, if it allows one",
		},
		&cli.Int64Flag{
			Name:  "maxfee",
			Usage: "max fee to pay for this payment (in sats)",
			Value: 1000,
		},
		&cli.StringFlag{
			Name:    "lndhost",
			Value:   "localhost:10009",
			Usage:   "lnd instance rpc address",
			EnvVars: []string{"LNURL_LND_HOST"},
		},
		&cli.StringFlag{
			Name:    "macpath",
			Usage:   "Path to lnd's mac dir",
			EnvVars: []string{"LNURL_LND_MACAROON_DIR"},
		},
		&cli.StringFlag{
			Name:    "tlspath",
			Usage:   "Path to lnd's tls cert",
			EnvVars: []string{"LNURL_LND_TLS_PATH"},
		},
	},
	Action: payToLNURL,
}

func payToLNURL(ctx *cli.Context) error {
	client, err := getClient(ctx)
	if err != nil {
		return err
	}

	resp, err := client.Handle(ctx.Context, ctx.String("lnurl"))
	if err != nil {
		return err
	}

	payResp, ok := resp.(*lnurl.PayResponse)
	if !ok {
		return fmt.Errorf("expected a pay request, got %v", resp.Kind())
	}

	fmt.Printf("Paying %s: %s\n", payResp.Callback.Host(),
		payResp.Metadata.Text())

	// Check if the user specified an amount in the original call. If they
	// did not or if the specified amount is not within the bounds specified
	// in the server response, ask the user to enter a valid amount.
	amt := lnwire.MilliSatoshi(ctx.Uint64("amt"))
	for !payResp.IsValidAmount(amt) {
		fmt.Printf("Enter an amount (in millisatoshis) between "+
			"%d and %d\n", uint64(payResp.MinSendable),
			uint64(payResp.MaxSendable))

		amt, err = readAmount()
		if err != nil {
			return err
		}
	}

	action, err := client.ExecutePayRequest(
		ctx.Context, payResp, amt, ctx.String("comment"),
	)
	if err != nil {
		return err
	}

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

	res := <-lnd.Client.PayInvoice(
		ctx.Context, action.PR, btcutil.Amount(ctx.Int64("maxfee")),
		nil,
	)
	if res.Err != nil {
		return fmt.Errorf("could not pay invoice: %w", res.Err)
	}

	fmt.Printf("Successful payment! Preimage: %s\n", res.Preimage)

	if action.SuccessAction != nil {
		printSuccessAction(action.SuccessAction, res.Preimage[:])
	}

	return nil
}

func readAmount() (lnwire.MilliSatoshi, error) {
	reader := bufio.NewReader(os.Stdin)

	userInput, err := reader.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("could not read from console: %w", err)
	}

	amt, err := strconv.ParseUint(strings.TrimSpace(userInput), 10, 64)
	if err != nil {
		fmt.Printf("error parsing input: %v\n", err)
		return 0, nil
	}

	return lnwire.MilliSatoshi(amt), nil
}

func printSuccessAction(action *lnurl.SuccessAction, preimage []byte) {
	switch action.Tag {
	case lnurl.SuccessActionMessage:
		fmt.Println(action.Message)

	case lnurl.SuccessActionURL:
		fmt.Printf("%s: %s\n", action.Description, action.URL)

	case lnurl.SuccessActionAES:
		plain, err := action.Decrypt(preimage)
		if err != nil {
			fmt.Printf("could not decrypt success action: %v\n", err)
			return
		}
		fmt.Printf("%s: %s\n", action.Description, plain)
	}
}
