package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/services/dataaccess"
	"BTCPulse/internal/services/synthetic"
	"BTCPulse/pkg/config"
	applogger "BTCPulse/pkg/logger"
	"BTCPulse/pkg/metrics"
)

type fetchFlags struct {
	symbol    string
	format    string
	mode      string
	startDate string
	endDate   string
	limit     int
	platform  string
	model     string
	daysAhead int
}

var fetchKinds = []string{
	dataaccess.KindIndicators,
	dataaccess.KindDailySentiment,
	dataaccess.KindPosts,
	dataaccess.KindPredictions,
	dataaccess.KindMetrics,
	dataaccess.KindHealth,
}

func newFetchCmd() *cobra.Command {
	f := &fetchFlags{}
	cmd := &cobra.Command{
		Use:       "fetch <kind>",
		Short:     "Fetch one data kind through the data-access facade",
		Long:      "Kinds: " + strings.Join(fetchKinds, ", "),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: fetchKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), cmd.OutOrStdout(), args[0], f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.symbol, "symbol", "", "symbol (default: dashboard.symbol)")
	fl.StringVar(&f.format, "format", "table", "output format: table, json")
	fl.StringVar(&f.mode, "mode", "", "data source mode: remote, synthetic, auto (default: api.mode)")
	fl.StringVar(&f.startDate, "start-date", "", "YYYY-MM-DD")
	fl.StringVar(&f.endDate, "end-date", "", "YYYY-MM-DD")
	fl.IntVar(&f.limit, "limit", 10, "posts limit")
	fl.StringVar(&f.platform, "platform", "", "posts platform: Twitter, Reddit")
	fl.StringVar(&f.model, "model", models.DefaultModelName, "model name")
	fl.IntVar(&f.daysAhead, "days-ahead", 7, "prediction horizon in days")
	return cmd
}

func runFetch(ctx context.Context, out io.Writer, kind string, f *fetchFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if f.mode != "" {
		cfg.API.Mode = f.mode
	}
	symbol := f.symbol
	if symbol == "" {
		symbol = cfg.Dashboard.Symbol
	}

	log, err := applogger.New(&applogger.Config{Level: "warn", Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	src := dataaccess.New(ctx, dataaccess.Config{
		Mode:    cfg.API.Mode,
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, synthetic.New(), metrics.NewWithRegisterer(prometheus.NewRegistry()), log)

	dr := models.DateRangeQuery{StartDate: f.startDate, EndDate: f.endDate}
	var (
		header []string
		rows   [][]string
		data   interface{}
	)
	switch kind {
	case dataaccess.KindIndicators:
		v, err := src.Indicators(ctx, symbol, dr)
		if err != nil {
			return err
		}
		data = v
		header = []string{"Date", "SMA50", "RSI14", "MACD", "Signal", "BB Upper", "BB Lower"}
		for _, r := range v {
			rows = append(rows, []string{r.DateOnly, num(r.SMA50), num(r.RSI14), num(r.MACD), num(r.MACDSignal), num(r.BollingerUpper), num(r.BollingerLower)})
		}
	case dataaccess.KindDailySentiment:
		v, err := src.DailySentiment(ctx, symbol, dr)
		if err != nil {
			return err
		}
		data = v
		header = []string{"Date", "Posts", "Net", "Fear", "Greed", "Pos %", "Neg %", "Neu %"}
		for _, r := range v {
			rows = append(rows, []string{r.DateOnly, strconv.Itoa(r.TotalPosts), num(r.NetSentimentScore), num(r.FearIndex), num(r.GreedIndex), num(r.PositivePercentage), num(r.NegativePercentage), num(r.NeutralPercentage)})
		}
	case dataaccess.KindPosts:
		v, err := src.SocialPosts(ctx, symbol, models.PostsQuery{Limit: f.limit, Platform: f.platform})
		if err != nil {
			return err
		}
		data = v
		header = []string{"ID", "Platform", "Author", "Sentiment", "Score", "Text"}
		for _, p := range v {
			rows = append(rows, []string{strconv.FormatInt(p.PostID, 10), string(p.Platform), p.Author, string(p.SentimentLabel), num(p.SentimentScore), truncate(p.Text, 50)})
		}
	case dataaccess.KindPredictions:
		v, err := src.Predictions(ctx, symbol, models.PredictionsQuery{ModelName: f.model, DaysAhead: f.daysAhead})
		if err != nil {
			return err
		}
		data = v
		header = []string{"Date", "Actual", "Predicted", "Lower", "Upper", "Future"}
		for _, p := range v {
			actual := "-"
			if p.ActualPrice != nil {
				actual = num(*p.ActualPrice)
			}
			rows = append(rows, []string{p.Date, actual, num(p.PredictedPrice), num(p.LowerBound), num(p.UpperBound), strconv.FormatBool(p.IsFuture)})
		}
	case dataaccess.KindMetrics:
		v, err := src.ModelMetrics(ctx, models.MetricsQuery{Symbol: symbol, ModelName: f.model})
		if err != nil {
			return err
		}
		data = v
		header = []string{"Field", "Value"}
		rows = [][]string{
			{"model_name", v.ModelName},
			{"evaluation_date", v.EvaluationDate},
			{"mae", num(v.Metrics.MAE)},
			{"rmse", num(v.Metrics.RMSE)},
			{"mape_percentage", num(v.Metrics.MAPEPercentage)},
			{"r2_score", num(v.Metrics.R2Score)},
			{"mae_reduction_percentage", num(v.ImprovementVsBenchmark.MAEReductionPercentage)},
			{"benchmark_status", string(v.ImprovementVsBenchmark.Status)},
		}
	case dataaccess.KindHealth:
		v, err := src.Health(ctx)
		if err != nil {
			return err
		}
		data = v
		header = []string{"Status", "Database", "Redis", "Timestamp", "Mode"}
		rows = [][]string{{v.Status, v.Database, v.Redis, v.Timestamp.Format("2006-01-02 15:04:05"), src.Mode()}}
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}

	if f.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	table := tablewriter.NewTable(out, tablewriter.WithHeader(header))
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return err
		}
	}
	return table.Render()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
