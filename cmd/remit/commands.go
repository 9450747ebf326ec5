package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/remit/internal/config"
	"github.com/mtlprog/remit/internal/domain"
	"github.com/mtlprog/remit/internal/export"
	"github.com/mtlprog/remit/internal/external"
	"github.com/mtlprog/remit/internal/showcase"
	"github.com/mtlprog/remit/internal/simulate"
	"github.com/mtlprog/remit/internal/transfer"
	"github.com/mtlprog/remit/internal/wallet"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addressArg(c *cli.Context) (string, error) {
	addr := strings.TrimSpace(c.Args().First())
	if !wallet.ValidAddress(addr) {
		return "", cli.Exit("a valid Algorand address is required", 2)
	}
	return addr, nil
}

func decimalFlag(c *cli.Context, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.String(name))
	if err != nil {
		return decimal.Zero, cli.Exit(fmt.Sprintf("--%s must be a number", name), 2)
	}
	return d, nil
}

func accountCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:      "account",
		Usage:     "print the summary of an account",
		ArgsUsage: "ADDRESS",
		Action: func(c *cli.Context) error {
			addr, err := addressArg(c)
			if err != nil {
				return err
			}
			client, err := newChainClient(cfg)
			if err != nil {
				return err
			}
			summary, err := newAccountService(cfg, client).Aggregate(c.Context, addr)
			if err != nil {
				if errors.Is(err, domain.ErrRateLimited) {
					return cli.Exit("Rate limit exceeded. Please wait a moment and try again.", 1)
				}
				return err
			}
			return printJSON(c.App.Writer, summary)
		},
	}
}

func exportCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write the recent transactions of an account to CSV or XLSX",
		ArgsUsage: "ADDRESS",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv or xlsx", Value: "csv"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, - for stdout (default algo-transactions-DATE.EXT)"},
		},
		Action: func(c *cli.Context) error {
			addr, err := addressArg(c)
			if err != nil {
				return err
			}
			format := strings.ToLower(c.String("format"))
			write := map[string]func(io.Writer, []domain.NormalizedTransaction) error{
				"csv":  export.WriteCSV,
				"xlsx": export.WriteXLSX,
			}[format]
			if write == nil {
				return cli.Exit("--format must be csv or xlsx", 2)
			}

			client, err := newChainClient(cfg)
			if err != nil {
				return err
			}
			summary, err := newAccountService(cfg, client).Aggregate(c.Context, addr)
			if err != nil {
				return err
			}

			out := c.String("output")
			if out == "-" {
				return write(c.App.Writer, summary.Transactions)
			}
			if out == "" {
				out = export.Filename(time.Now(), format)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := write(f, summary.Transactions); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}
			fmt.Fprintf(c.App.Writer, "wrote %d transactions to %s\n", len(summary.Transactions), out)
			return nil
		},
	}
}

// submitAction resolves the configured signer and prints the submission result.
func submitAction(cfg config.Config, fn func(c *cli.Context, svc *transfer.Service, signer wallet.Signer) (transfer.Result, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		signer, err := mnemonicSigner(cfg)
		if err != nil {
			if errors.Is(err, wallet.ErrNotConnected) {
				return cli.Exit("Please connect your wallet first (set WALLET_MNEMONIC)", 1)
			}
			return err
		}
		client, err := newChainClient(cfg)
		if err != nil {
			return err
		}
		res, err := fn(c, newTransferService(cfg, client), signer)
		if err != nil {
			if errors.Is(err, transfer.ErrInvalidInput) {
				return cli.Exit(err.Error(), 2)
			}
			return err
		}
		return printJSON(c.App.Writer, res)
	}
}

func sendCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "send ALGO from the configured wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Usage: "receiver address", Required: true},
			&cli.StringFlag{Name: "amount", Usage: "amount in ALGO", Required: true},
			&cli.StringFlag{Name: "note", Usage: "transaction note"},
		},
		Action: submitAction(cfg, func(c *cli.Context, svc *transfer.Service, signer wallet.Signer) (transfer.Result, error) {
			amount, err := decimalFlag(c, "amount")
			if err != nil {
				return transfer.Result{}, err
			}
			return svc.SendPayment(c.Context, signer, transfer.PaymentRequest{
				Receiver: c.String("to"),
				Amount:   amount,
				Note:     c.String("note"),
			})
		}),
	}
}

func mintTokenCommand(cfg config.Config) *cli.Command {
	def := transfer.DefaultTokenRequest()
	return &cli.Command{
		Name:  "mint-token",
		Usage: "create a fungible asset owned by the configured wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "asset name", Value: def.AssetName},
			&cli.StringFlag{Name: "unit", Usage: "unit name", Value: def.UnitName},
			&cli.Uint64Flag{Name: "total", Usage: "total supply in base units", Value: def.Total},
			&cli.IntFlag{Name: "decimals", Usage: "decimal places", Value: def.Decimals},
		},
		Action: submitAction(cfg, func(c *cli.Context, svc *transfer.Service, signer wallet.Signer) (transfer.Result, error) {
			return svc.MintToken(c.Context, signer, transfer.TokenRequest{
				AssetName: c.String("name"),
				UnitName:  c.String("unit"),
				Total:     c.Uint64("total"),
				Decimals:  c.Int("decimals"),
			})
		}),
	}
}

func mintNFTCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mint-nft",
		Usage: "create a " + transfer.NFTName + " NFT pointing at a metadata URL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "metadata URL (ipfs:// or https://)", Required: true},
		},
		Action: submitAction(cfg, func(c *cli.Context, svc *transfer.Service, signer wallet.Signer) (transfer.Result, error) {
			return svc.MintNFT(c.Context, signer, transfer.NFTRequest{MetadataURL: c.String("url")})
		}),
	}
}

func simulateCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "run a simulated remittance and print each step",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "amount", Usage: "amount in USD", Value: "100"},
			&cli.StringFlag{Name: "currency", Usage: "payout currency", Value: "PKR"},
			&cli.StringFlag{Name: "rate", Usage: "exchange rate (default: built-in rate for the currency)"},
			&cli.BoolFlag{Name: "instant", Usage: "skip the step delays"},
		},
		Action: func(c *cli.Context) error {
			amount, err := decimalFlag(c, "amount")
			if err != nil {
				return err
			}
			currency := strings.ToUpper(c.String("currency"))

			rate, ok := external.StaticRates[currency]
			if c.String("rate") != "" {
				if rate, err = decimalFlag(c, "rate"); err != nil {
					return err
				}
			} else if !ok {
				return cli.Exit("no built-in rate for "+currency+", pass --rate", 2)
			}

			simCfg := simulationConfig(cfg)
			if c.Bool("instant") {
				simCfg.InitiateDelay, simCfg.SendDelay, simCfg.ConvertDelay = 0, 0, 0
			}
			w := c.App.Writer
			t := simulate.New(simCfg, simulate.WithOnChange(func(s simulate.Status) {
				fmt.Fprintf(w, "%s  %-10s %s\n", s.UpdatedAt.Format(time.TimeOnly), s.State, s.TransactionID)
			}))

			final, err := t.Run(c.Context, simulate.Request{Amount: amount, Currency: currency, ExchangeRate: rate})
			if err != nil {
				if errors.Is(err, simulate.ErrInvalidRequest) {
					return cli.Exit(err.Error(), 2)
				}
				return err
			}
			if final.State == simulate.StateError {
				return cli.Exit(final.ErrorMessage, 1)
			}
			fmt.Fprintf(w, "received %s %s\n", final.ReceivedAmount.StringFixed(2), final.Currency)
			return nil
		},
	}
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "compare a remittance against a traditional provider",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "amount", Usage: "amount in USD", Value: "200"},
		},
		Action: func(c *cli.Context) error {
			amount, err := decimalFlag(c, "amount")
			if err != nil {
				return err
			}
			if amount.IsNegative() {
				return cli.Exit("--amount must not be negative", 2)
			}
			sc := showcase.New(showcase.DefaultConfig())
			return printJSON(c.App.Writer, struct {
				Comparison showcase.Comparison `json:"comparison"`
				Impact     showcase.Impact     `json:"impact"`
			}{
				Comparison: sc.CompareCosts(amount),
				Impact:     sc.Impact(decimal.Zero, decimal.Zero, decimal.Zero),
			})
		},
	}
}
