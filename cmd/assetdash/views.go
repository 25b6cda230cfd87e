package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/forecast"
	"github.com/mtlprog/assetdash/internal/portfolio"
	"github.com/mtlprog/assetdash/internal/report"
)

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func seriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "series",
		Usage: "print the monthly per-class totals",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "period", Value: string(portfolio.Period1Y), Usage: "6m, 1y, 2y, 5y, 10y or 20y"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			ag := portfolio.New(s.holdings.Taxonomy())
			series := ag.MonthlySeries(s.holdings.Assets())
			series = portfolio.FilterPeriod(series, portfolio.Period(c.String("period")), time.Now())
			if series == nil {
				series = []domain.MonthBucket{}
			}
			return printJSON(c, map[string]any{
				"series": series,
				"growth": portfolio.Growth(series),
			})
		}),
	}
}

func allocationCommand() *cli.Command {
	return &cli.Command{
		Name:  "allocation",
		Usage: "print the allocation of a month",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Value: "latest", Usage: "YYYY-MM or latest"},
			&cli.BoolFlag{Name: "detailed", Usage: "break down by subcategory"},
			&cli.BoolFlag{Name: "snapshot", Usage: "only records on the latest record date"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			ag := portfolio.New(s.holdings.Taxonomy())
			assets := s.holdings.Assets()
			switch {
			case c.Bool("snapshot"):
				return printJSON(c, ag.LatestSnapshotAllocation(assets))
			case c.Bool("detailed"):
				return printJSON(c, ag.DetailedAllocation(assets, c.String("month")))
			default:
				return printJSON(c, ag.Allocation(assets, c.String("month")))
			}
		}),
	}
}

func monthsCommand() *cli.Command {
	return &cli.Command{
		Name:  "months",
		Usage: "list months with records, grouped by fiscal year",
		Action: withSession(func(c *cli.Context, s *session) error {
			assets := s.holdings.Assets()
			for _, g := range portfolio.GroupByFiscalYear(portfolio.AvailableMonths(assets)) {
				fmt.Fprintf(c.App.Writer, "FY%d: %s\n", g.Year, strings.Join(g.Months, " "))
			}
			return nil
		}),
	}
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "project the portfolio value with monthly contributions",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "current", Usage: "starting value (default the latest month total)"},
			&cli.Float64Flag{Name: "monthly", Usage: "monthly contribution in yen"},
			&cli.Float64Flag{Name: "rate", Value: 5, Usage: "expected annual return in percent"},
			&cli.IntFlag{Name: "years", Value: 10, Usage: "time horizon in years"},
			&cli.IntFlag{Name: "age", Usage: "current age"},
			&cli.BoolFlag{Name: "json", Usage: "print the full result as JSON"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			p := forecast.Params{
				CurrentValue:      c.Float64("current"),
				MonthlyInvestment: c.Float64("monthly"),
				AnnualRate:        c.Float64("rate") / 100,
				TimeHorizonYears:  c.Int("years"),
				CurrentAge:        c.Int("age"),
			}
			if !c.IsSet("current") {
				ag := portfolio.New(s.holdings.Taxonomy())
				p.CurrentValue = float64(portfolio.Growth(ag.MonthlySeries(s.holdings.Assets())).Current)
			}

			cfg := s.cfg
			res, err := forecast.New(cfg.ForecastURL, cfg.ForecastAPIKey, cfg.ForecastRetryMax, cfg.ForecastTimeout).
				Forecast(c.Context, p)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(c, res)
			}

			for _, pt := range res.Data {
				fmt.Fprintf(c.App.Writer, "year %2d  %s\n", pt.Year, report.Yen(pt.Value))
			}
			fmt.Fprintf(c.App.Writer, "final %s, contributions %s, gains %s, effective rate %.2f%%\n",
				report.Yen(res.Summary.FinalValue),
				report.Yen(int64(res.Summary.TotalContributions)),
				report.Yen(int64(res.Summary.TotalGains)),
				res.Summary.EffectiveAnnualRate*100)
			return nil
		}),
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "print a Markdown summary of the dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "period", Value: string(portfolio.Period1Y), Usage: "trend look-back window"},
			&cli.BoolFlag{Name: "render", Usage: "format for the terminal"},
			&cli.IntFlag{Name: "width", Value: 100, Usage: "wrap width when rendering"},
		},
		Action: withSession(func(c *cli.Context, s *session) error {
			out := report.Markdown(report.Data{
				Assets:   s.holdings.Assets(),
				Expenses: s.holdings.Expenses(),
				Taxonomy: s.holdings.Taxonomy(),
				Now:      time.Now(),
				Period:   portfolio.Period(c.String("period")),
			})
			if c.Bool("render") {
				rendered, err := report.Render(out, c.Int("width"))
				if err != nil {
					return err
				}
				out = rendered
			}
			_, err := fmt.Fprint(c.App.Writer, out)
			return err
		}),
	}
}
