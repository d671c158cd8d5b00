package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roysafi/poll/internal/adapters/repository/postgres"
	"github.com/roysafi/poll/internal/config"
	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/services"
)

func main() {
	cfg, fs, err := config.Load("pollreport", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	report := flag.NewFlagSet("report", flag.ContinueOnError)
	byWard := report.Bool("wards", false, "Break the tallies down by ward")
	if err := report.Parse(fs.Args()); err != nil {
		os.Exit(2)
	}

	if err := cfg.Database.Validate(); err != nil {
		log.Fatal(err)
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	pollService := services.NewPollService(postgres.NewPollRepository(db), postgres.NewVoteRepository(db))

	if !*byWard {
		res, err := pollService.GetActivePollWithResults(ctx, nil)
		if err != nil {
			log.Fatalf("Error loading poll results: %v", err)
		}
		if res == nil {
			fmt.Println("No active poll.")
			return
		}
		printHeader(os.Stdout, res)
		printResults(os.Stdout, "", res.Results, res.Total)
		return
	}

	res, wards, err := pollService.WardBreakdown(ctx)
	if err != nil {
		log.Fatalf("Error loading ward breakdown: %v", err)
	}
	if res == nil {
		fmt.Println("No active poll.")
		return
	}
	printHeader(os.Stdout, res)
	for _, w := range wards {
		name := "(no ward)"
		if w.Ward != nil {
			name = *w.Ward
		}
		printResults(os.Stdout, name, w.Results, w.Total)
	}
}

func printHeader(w io.Writer, res *domain.PollResults) {
	fmt.Fprintf(w, "%s (%s)\n%s votes, created %s\n\n",
		res.Poll.Question, res.Poll.Slug, humanize.Comma(res.Total), humanize.Time(res.Poll.CreatedAt))
}

func printResults(w io.Writer, title string, results []domain.OptionResult, total int64) {
	if title != "" {
		fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("-", len(title)))
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, r := range results {
		share := 0.0
		if total > 0 {
			share = float64(r.Votes) / float64(total) * 100
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%%\t\n", r.Option, humanize.Comma(r.Votes), humanize.FtoaWithDigits(share, 1))
	}
	tw.Flush()
	fmt.Fprintln(w)
}
