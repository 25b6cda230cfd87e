package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/report"
)

var errMissingArg = errors.New("missing argument")

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "record an asset amount",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "record date, YYYY-MM-DD (default today)"},
			&cli.StringFlag{Name: "category", Required: true},
			&cli.StringFlag{Name: "subcategory", Required: true},
			&cli.Int64Flag{Name: "amount", Required: true, Usage: "amount in yen"},
			&cli.Float64Flag{Name: "tax-rate", Usage: "tax rate in percent, 0-100"},
			&cli.StringFlag{Name: "memo"},
			&cli.StringFlag{Name: "taxonomy-version", Usage: "taxonomy the category belongs to (default the configured one)"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			a := domain.Asset{
				Date:        c.String("date"),
				Category:    domain.Category(c.String("category")),
				Subcategory: domain.Subcategory(c.String("subcategory")),
				Amount:      c.Int64("amount"),
				Memo:        c.String("memo"),
			}
			if a.Date == "" {
				a.Date = time.Now().Format(domain.DateLayout)
			}
			if c.IsSet("tax-rate") {
				rate := c.Float64("tax-rate")
				a.TaxRate = &rate
			}
			if c.IsSet("taxonomy-version") {
				a.TaxonomyVersion = domain.ParseTaxonomyVersion(c.String("taxonomy-version"))
			}

			created, err := s.holdings.Add(c.Context, a)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "added %s (%s, after tax %s)\n",
				created.ID, report.Yen(created.Amount), report.Yen(domain.AfterTax(created)))
			return nil
		}),
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list asset records, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Usage: "only records of this month, YYYY-MM"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			assets := s.holdings.Assets()
			if month := c.String("month"); month != "" {
				filtered := assets[:0:0]
				for _, a := range assets {
					if a.Month() == month {
						filtered = append(filtered, a)
					}
				}
				assets = filtered
			}
			slices.SortStableFunc(assets, func(a, b domain.Asset) int { return cmp.Compare(b.Date, a.Date) })
			if c.Bool("json") {
				return printJSON(c, assets)
			}
			if len(assets) == 0 {
				fmt.Fprintln(c.App.Writer, "no records")
				return nil
			}

			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				tax := ""
				if a.TaxRate != nil {
					tax = strconv.FormatFloat(*a.TaxRate, 'f', -1, 64) + "%"
				}
				rows = append(rows, []string{
					a.ID, a.Date, string(a.Category), string(a.Subcategory),
					report.Yen(a.Amount), tax, report.Yen(domain.AfterTax(a)), a.Memo,
				})
			}
			var buf bytes.Buffer
			doc := md.NewMarkdown(&buf)
			doc.Table(md.TableSet{
				Header: []string{"ID", "Date", "Category", "Subcategory", "Amount", "Tax", "After tax", "Memo"},
				Rows:   rows,
			})
			_, err := fmt.Fprint(c.App.Writer, doc.String())
			return err
		}),
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete an asset record",
		ArgsUsage: "<id>",
		Action: withSession(func(c *cli.Context, s *session) error {
			id := c.Args().First()
			if id == "" {
				return fmt.Errorf("%w: record id", errMissingArg)
			}
			if err := s.holdings.Delete(c.Context, id); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "deleted %s\n", id)
			return nil
		}),
	}
}

func expenseCommand() *cli.Command {
	return &cli.Command{
		Name:  "expense",
		Usage: "manage expense records",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "record an expense",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "expense date, YYYY-MM-DD (default today)"},
					&cli.StringFlag{Name: "category", Required: true},
					&cli.Int64Flag{Name: "amount", Required: true, Usage: "amount in yen"},
					&cli.StringFlag{Name: "memo"},
				},
				Action: withSession(func(c *cli.Context, s *session) error {
					e := domain.Expense{
						Date:     c.String("date"),
						Category: domain.ExpenseCategory(c.String("category")),
						Amount:   c.Int64("amount"),
						Memo:     c.String("memo"),
					}
					if e.Date == "" {
						e.Date = time.Now().Format(domain.DateLayout)
					}
					created, err := s.holdings.AddExpense(c.Context, e)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "added %s (%s)\n", created.ID, report.Yen(created.Amount))
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list expense records",
				Action: withSession(func(c *cli.Context, s *session) error {
					return printJSON(c, s.holdings.Expenses())
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete an expense record",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, s *session) error {
					id := c.Args().First()
					if id == "" {
						return fmt.Errorf("%w: expense id", errMissingArg)
					}
					if err := s.holdings.DeleteExpense(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "deleted %s\n", id)
					return nil
				}),
			},
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "show what the store holds",
		Action: withSession(func(c *cli.Context, s *session) error {
			if !s.gateway.HasStoredData(c.Context) {
				fmt.Fprintln(c.App.Writer, "no stored data")
				return nil
			}
			fmt.Fprintf(c.App.Writer, "backend: %s\nassets: %d\nexpenses: %d\n",
				s.cfg.StorageBackend, len(s.holdings.Assets()), len(s.holdings.Expenses()))
			return nil
		}),
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "delete all stored records",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Usage: "confirm deletion"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			if !c.Bool("yes") {
				return errors.New("refusing to clear without --yes")
			}
			s.gateway.Clear(c.Context)
			fmt.Fprintln(c.App.Writer, "cleared")
			return nil
		}),
	}
}
