package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/forestwatch-org/forestwatch/decode"
	"github.com/forestwatch-org/forestwatch/engine"
	"github.com/forestwatch-org/forestwatch/ingest"
	"github.com/forestwatch-org/forestwatch/server"
)

// ============================================================================
// FORESTWATCH CLI — Analyze a File or Serve the Dashboard API
// ============================================================================

const version = "0.3.0"

func main() {
	filePath := flag.String("file", "", "Path to a CSV/XLSX/JSON forest-change file")
	serve := flag.Bool("serve", false, "Run the dashboard API server")
	addr := flag.String("addr", "", "Server listen address (default :8080, or FORESTWATCH_ADDR)")
	rulesPath := flag.String("rules", "", "Path to a YAML column-synonym rules file")
	refYear := flag.Int("ref-year", time.Now().Year(), "Reference calendar year bounding valid record years")
	region := flag.String("region", "", "Filter: exact region name")
	year := flag.Int("year", 0, "Filter: exact year")
	from := flag.Int("from", 0, "Filter: first year of an inclusive range")
	to := flag.Int("to", 0, "Filter: last year of an inclusive range")
	format := flag.String("format", "json", "Output format: json, pretty, text")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `ForestWatch — forest-change analytics

Usage:
  forestwatch --file changes.csv --format text
  forestwatch --file changes.xlsx --region Kerala --format pretty
  forestwatch --file changes.json --from 2015 --to 2020 --out summary.json
  forestwatch --serve --addr :8080

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  FORESTWATCH_ADDR    Server listen address (overridden by --addr)

Formats:
  json      Full JSON summary (default)
  pretty    Pretty-printed JSON
  text      Human-readable report
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("forestwatch %s\n", version)
		os.Exit(0)
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	rules := ingest.DefaultRules()
	if *rulesPath != "" {
		data, err := os.ReadFile(*rulesPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *rulesPath).Msg("failed to read rules file")
		}
		rules, err = ingest.LoadRules(data)
		if err != nil {
			log.Fatal().Err(err).Str("path", *rulesPath).Msg("failed to parse rules file")
		}
	}

	if *serve {
		listen := *addr
		if listen == "" {
			listen = os.Getenv("FORESTWATCH_ADDR")
		}
		if listen == "" {
			listen = ":8080"
		}
		srv := server.New(log, rules, *refYear)
		log.Info().Str("addr", listen).Msg("serving dashboard API")
		if err := srv.Router().Run(listen); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --file or --serve is required")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *filePath).Msg("failed to read file")
	}

	rows, err := decode.Rows(*filePath, data)
	if err != nil {
		if errors.Is(err, decode.ErrUnsupportedFormat) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("failed to decode file")
	}

	records, err := ingest.Ingest(rows, rules, *refYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	criteria := engine.Criteria{Region: *region}
	if *year != 0 {
		criteria.Year = year
	}
	if *from != 0 || *to != 0 {
		span := engine.YearRange{Min: 0, Max: 9999}
		if *from != 0 {
			span.Min = *from
		}
		if *to != 0 {
			span.Max = *to
		}
		criteria.YearRange = &span
	}

	summary := engine.Summarize(engine.Apply(records, criteria))

	output, err := render(summary, *format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(output), 0o644); err != nil {
			log.Fatal().Err(err).Str("path", *outFile).Msg("failed to write output")
		}
		log.Info().Str("path", *outFile).Msg("output written")
		return
	}
	fmt.Print(output)
}

func render(summary engine.Summary, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.Marshal(summary)
		return string(data) + "\n", err
	case "pretty":
		data, err := json.MarshalIndent(summary, "", "  ")
		return string(data) + "\n", err
	case "text":
		return renderText(summary), nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, pretty, or text)", format)
	}
}

func renderText(s engine.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Records: %d\n", s.Count)
	fmt.Fprintf(&b, "Total loss: %.1f ha   Total gain: %.1f ha   Net change: %.1f ha\n\n",
		s.Totals.TotalLoss, s.Totals.TotalGain, s.Totals.NetChange)

	if len(s.ByYear) > 0 {
		b.WriteString("By year:\n")
		for _, bucket := range s.ByYear {
			fmt.Fprintf(&b, "  %s  loss %.1f  gain %.1f  net %+.1f\n",
				bucket.Label, bucket.Loss, bucket.Gain, bucket.NetChange)
		}
		b.WriteString("\n")
	}

	if len(s.Benchmarks) > 0 {
		b.WriteString("Benchmarks:\n")
		for _, mark := range s.Benchmarks {
			if mark.Unavailable {
				fmt.Fprintf(&b, "  %s: unavailable (%s)\n", mark.Label, mark.Context)
				continue
			}
			line := fmt.Sprintf("  %s: %.2f %s", mark.Label, mark.Value, mark.Unit)
			if mark.Context != "" {
				line += fmt.Sprintf(" (%s)", mark.Context)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.Projections) > 0 {
		b.WriteString("Projections:\n")
		for _, p := range s.Projections {
			marker := ""
			if p.Equilibrium {
				marker = "  [equilibrium]"
			}
			fmt.Fprintf(&b, "  %d  loss %.1f  gain %.1f  net %+.1f%s\n",
				p.Year, p.Loss, p.Gain, p.NetChange, marker)
		}
	}

	return b.String()
}
