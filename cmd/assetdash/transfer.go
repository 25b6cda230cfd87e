package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/assetdash/internal/export"
	"github.com/mtlprog/assetdash/internal/password"
	"github.com/mtlprog/assetdash/internal/transfer"
)

func passwordCommand() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "encode the records as a katakana password and back",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "print the password of the stored records",
				Action: withSession(func(c *cli.Context, s *session) error {
					fmt.Fprintln(c.App.Writer, password.Generate(s.holdings.Assets(), s.holdings.Expenses()))
					return nil
				}),
			},
			{
				Name:  "sample",
				Usage: "print the password of the built-in sample data",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, password.GenerateSample())
					return nil
				},
			},
			{
				Name:      "validate",
				Usage:     "check that a password decodes to a summary",
				ArgsUsage: "<password>",
				Action: func(c *cli.Context) error {
					pw, err := passwordArg(c)
					if err != nil {
						return err
					}
					if !password.Validate(pw) {
						return password.ErrInvalidPassword
					}
					if !password.Decode(pw).Clean() {
						fmt.Fprintln(c.App.Writer, "valid, with unreadable characters")
						return nil
					}
					fmt.Fprintln(c.App.Writer, "valid")
					return nil
				},
			},
			{
				Name:      "decode",
				Usage:     "print the records a password holds",
				ArgsUsage: "<password>",
				Action: func(c *cli.Context) error {
					pw, err := passwordArg(c)
					if err != nil {
						return err
					}
					restored, err := password.DecodePassword(pw)
					if err != nil {
						return err
					}
					return printJSON(c, restored)
				},
			},
			{
				Name:      "restore",
				Usage:     "replace the stored records with the ones a password holds",
				ArgsUsage: "<password>",
				Action: withSession(func(c *cli.Context, s *session) error {
					pw, err := passwordArg(c)
					if err != nil {
						return err
					}
					restored, err := password.DecodePassword(pw)
					if err != nil {
						return err
					}
					if restored.Degraded() {
						slog.Warn("restoring from a degraded password",
							"skipped", len(restored.Skipped), "unreachable", len(restored.Unreachable))
					}
					s.holdings.Replace(c.Context, restored.Assets)
					s.holdings.ReplaceExpenses(c.Context, restored.Expenses)
					fmt.Fprintf(c.App.Writer, "restored %d assets and %d expenses\n",
						len(restored.Assets), len(restored.Expenses))
					return nil
				}),
			},
		},
	}
}

// passwordArg joins the arguments so grouped passwords may be passed unquoted.
func passwordArg(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		return "", fmt.Errorf("%w: password", errMissingArg)
	}
	return strings.Join(c.Args().Slice(), ""), nil
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export the records",
		Subcommands: []*cli.Command{
			{
				Name:  "json",
				Usage: "write a JSON backup",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output file, - for stdout (default 資産データ_<date>.json)"},
				},
				Action: withSession(func(c *cli.Context, s *session) error {
					now := time.Now()
					out := c.String("out")
					if out == "-" {
						return transfer.Export(c.App.Writer, s.holdings.Assets(), s.cfg.AppName, now)
					}
					if out == "" {
						out = transfer.FileName(now)
					}
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("creating %s: %w", out, err)
					}
					if err := transfer.Export(f, s.holdings.Assets(), s.cfg.AppName, now); err != nil {
						f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return fmt.Errorf("closing %s: %w", out, err)
					}
					fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
					return nil
				}),
			},
			{
				Name:  "xlsx",
				Usage: "write the fiscal-year tables as a workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "assetdash.xlsx", Usage: "output file"},
				},
				Action: withSession(func(c *cli.Context, s *session) error {
					out := c.String("out")
					svc := export.NewService(s.holdings, export.XLSXWriter{Path: out})
					if err := svc.Export(c.Context); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
					return nil
				}),
			},
			{
				Name:  "sheets",
				Usage: "write the fiscal-year tables to the configured spreadsheet",
				Action: withSession(func(c *cli.Context, s *session) error {
					if !s.cfg.SheetsEnabled() {
						return errors.New("SHEETS_SPREADSHEET_ID and GOOGLE_CREDENTIALS_JSON must be set")
					}
					writer, err := export.NewSheetsWriter(c.Context, s.cfg.SheetsSpreadsheetID, s.cfg.GoogleCredentialsJSON)
					if err != nil {
						return fmt.Errorf("creating sheets writer: %w", err)
					}
					if err := export.NewService(s.holdings, writer).Export(c.Context); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "spreadsheet updated")
					return nil
				}),
			},
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "replace the asset records with a JSON backup",
		ArgsUsage: "<file.json>",
		Action: withSession(func(c *cli.Context, s *session) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("%w: backup file", errMissingArg)
			}
			if err := transfer.CheckFileName(path); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer f.Close()

			res, err := transfer.Import(f)
			if err != nil {
				return err
			}
			s.holdings.Replace(c.Context, res.Assets)
			if res.Discarded > 0 {
				slog.Warn("import dropped invalid elements", "discarded", res.Discarded)
			}
			fmt.Fprintf(c.App.Writer, "imported %d assets (%d discarded)\n", len(res.Assets), res.Discarded)
			return nil
		}),
	}
}
