// Command pollwidget is a terminal rendition of the poll widget. It shows the
// active poll, asks for a choice and submits it once per poll.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/roysafi/poll/internal/widget"
)

func main() {
	log.SetFlags(0)

	home, _ := os.UserConfigDir()
	var baseURL, ward, flagFile string
	flag.StringVar(&baseURL, "url", envOr("POLL_API_URL", "http://localhost:8080/api"), "Poll API base URL")
	flag.StringVar(&ward, "ward", "", "Ward to vote from")
	flag.StringVar(&flagFile, "state", filepath.Join(home, "roysafi", "voted.json"), "File remembering polls already voted in")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	w := widget.New(widget.NewClient(baseURL, nil), widget.NewFileFlags(flagFile))
	w.SelectWard(ward)

	if err := w.Load(ctx); err != nil {
		log.Fatalf("Could not load the poll: %v", err)
	}
	if w.State() == widget.StateNoActivePoll {
		fmt.Println("There is no active poll right now.")
		return
	}

	render(w)
	if w.HasVoted() {
		fmt.Println("Thanks, you have already voted in this poll.")
		return
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Your choice (number): ")
		if !in.Scan() {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil || w.Select(n-1) != nil {
			fmt.Println("Please enter one of the option numbers.")
			continue
		}

		err = w.Submit(ctx)
		var reqErr *widget.RequestError
		switch {
		case err == nil:
			fmt.Println("Thanks for voting!")
			render(w)
			return
		case errors.As(err, &reqErr) && reqErr.StatusCode < 500:
			fmt.Printf("Vote rejected: %s\n", reqErr.Message)
			return
		default:
			fmt.Printf("Could not submit your vote (%v), try again.\n", err)
		}
	}
}

func render(w *widget.Widget) {
	p := w.Poll()
	if p == nil {
		return
	}
	fmt.Printf("\n%s\n\n", p.Question)
	for i, t := range w.Tallies() {
		fmt.Printf("  %d. %-24s %4d%%  (%d)\n", i+1, t.Option, t.Percent, t.Votes)
	}
	fmt.Printf("\n  %d votes\n\n", w.TotalVotes())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
