// Command pollctl manages polls out of band: create, activate, deactivate
// and list them, and mint admin tokens for the HTTP admin routes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"

	"github.com/roysafi/poll/internal/adapters/auth"
	"github.com/roysafi/poll/internal/adapters/repository/postgres"
	"github.com/roysafi/poll/internal/config"
	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
	"github.com/roysafi/poll/internal/core/services"
)

const usage = `usage: pollctl [global flags] <command> [flags]

commands:
  create -slug S -question Q -option A -option B [-active]
  activate <poll id>
  deactivate <poll id>
  list
  token [-sub NAME] [-ttl DURATION]
`

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ", ") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	log.SetFlags(0)

	cfg, fs, err := config.Load("pollctl", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if fs.NArg() == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := fs.Arg(0), fs.Args()[1:]

	if cmd == "token" {
		if err := runToken(cfg, args); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := cfg.Database.Validate(); err != nil {
		log.Fatal(err)
	}
	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	admin := services.NewAdminService(postgres.NewPollRepository(db))

	switch cmd {
	case "create":
		err = runCreate(ctx, admin, args)
	case "activate", "deactivate":
		err = runSetActive(ctx, admin, cmd, args)
	case "list":
		err = runList(ctx, admin, db)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runCreate(ctx context.Context, admin ports.AdminService, args []string) error {
	var input ports.CreatePollInput
	var options stringList

	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.StringVar(&input.Slug, "slug", "", "Poll slug")
	fs.StringVar(&input.Question, "question", "", "Poll question")
	fs.Var(&options, "option", "Option label, repeat once per option in display order")
	fs.BoolVar(&input.Active, "active", false, "Activate the poll right away")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input.Options = options

	poll, err := admin.CreatePoll(ctx, input)
	if err != nil {
		return err
	}
	printPoll(poll)
	return nil
}

func runSetActive(ctx context.Context, admin ports.AdminService, cmd string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%s needs exactly one poll id", cmd)
	}

	var poll *domain.Poll
	var err error
	if cmd == "activate" {
		poll, err = admin.ActivatePoll(ctx, args[0])
	} else {
		poll, err = admin.DeactivatePoll(ctx, args[0])
	}
	if err != nil {
		return err
	}
	printPoll(poll)
	return nil
}

func runList(ctx context.Context, admin ports.AdminService, db *sqlx.DB) error {
	polls, err := admin.ListPolls(ctx)
	if err != nil {
		return err
	}
	votes := postgres.NewVoteRepository(db)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tACTIVE\tOPTIONS\tVOTES\tCREATED")
	for _, p := range polls {
		counts, err := votes.FetchVoteCounts(ctx, p.ID, nil)
		if err != nil {
			return err
		}
		_, total := domain.Tally(p.Options, counts)
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%s\t%s\n",
			p.ID, p.Slug, p.IsActive, len(p.Options), humanize.Comma(total), humanize.Time(p.CreatedAt))
	}
	return tw.Flush()
}

func runToken(cfg config.Config, args []string) error {
	var subject string
	var ttl time.Duration

	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.StringVar(&subject, "sub", "admin", "Token subject")
	fs.DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tokens, err := auth.NewAdminTokens(cfg.AdminJWTSecret)
	if err != nil {
		return err
	}
	token, err := tokens.Issue(subject, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func printPoll(p *domain.Poll) {
	fmt.Printf("%s  %s  active=%t\n%s\n", p.ID, p.Slug, p.IsActive, p.Question)
	for i, o := range p.Options {
		fmt.Printf("  %d. %s\n", i, o)
	}
}
