package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/pribylovaa/twaincards-client/internal/clients"
	apierrors "github.com/pribylovaa/twaincards-client/internal/errors"
	"github.com/pribylovaa/twaincards-client/internal/study"
)

const (
	collectionsPageSize = 20
	defaultStatsDays    = 30
)

var errUsage = errors.New("invalid arguments, see twaincards --help")

// run выполняет одну команду CLI.
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	a.nav.SetLocation(cmd)

	var err error
	switch cmd {
	case "login":
		err = a.login(ctx, rest)
	case "logout":
		a.api.Auth.Logout(ctx)
		fmt.Fprintln(a.out, "Logged out.")
	case "whoami":
		err = a.whoami(ctx)
	case "status":
		a.status(ctx)
	case "collections":
		err = a.collections(ctx, rest)
	case "study":
		err = a.study(ctx, rest)
	case "stats":
		err = a.stats(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}

	return humanize(err)
}

// humanize заменяет ошибки сессии и доступа понятным текстом.
func humanize(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, clients.ErrSessionExpired):
		return errors.New("not logged in")
	case apierrors.IsForbidden(err):
		var e *apierrors.Error
		errors.As(err, &e)
		return fmt.Errorf("access denied: %s", e.Message)
	default:
		return err
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	resp, err := a.api.Auth.Login(ctx, args[0], args[1])
	if err != nil {
		// 401 на входе проходит через обновление токена и возвращается
		// как истёкшая сессия.
		if apierrors.IsUnauthorized(err) || errors.Is(err, clients.ErrSessionExpired) {
			return errors.New("invalid username or password")
		}
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (%s).\n", resp.Username, resp.Role)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	claims, ok := a.tokens.DecodeClaims(ctx)
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	me, err := a.api.Users.Me(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "User:\t%s (id %d)\n", sanitize(me.Username), me.ID)
	fmt.Fprintf(w, "Email:\t%s\n", sanitize(me.Email))
	fmt.Fprintf(w, "Role:\t%s\n", me.Role)
	if claims.IsAdmin() {
		fmt.Fprintf(w, "Admin:\tyes\n")
	}
	fmt.Fprintf(w, "Cards:\t%d learned of %d (%.0f%%)\n", me.LearnedCards, me.TotalCards, me.CompletionPercentage)
	fmt.Fprintf(w, "Streak:\t%d days\n", me.LearningStreakDays)

	return w.Flush()
}

func (a *app) status(ctx context.Context) {
	exp, ok := a.tokens.ExpiresAt(ctx)
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}

	fmt.Fprintf(a.out, "Logged in, token valid until %s (%s left).\n",
		exp.Local().Format(time.DateTime), time.Until(exp).Round(time.Second))
}

func (a *app) collections(ctx context.Context, args []string) error {
	page := 0
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 0 {
			return errUsage
		}
		page = p
	}

	res, err := a.api.Collections.ListMine(ctx, page, collectionsPageSize)
	if err != nil {
		return err
	}

	if len(res.Content) == 0 {
		fmt.Fprintln(a.out, "No collections.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCARDS\tLEARNED\tPUBLIC")
	for _, c := range res.Content {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%t\n", c.ID, sanitize(c.Name), c.CardCount, c.LearnedCardCount, c.IsPublic)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "page %d of %d\n", res.Number+1, max(res.TotalPages, 1))
	return nil
}

func (a *app) study(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("study", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	side := fs.String("start-side", a.cfg.Study.StartSide, "front, back or random")

	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}

	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return errUsage
	}

	startSide, err := study.ParseStartSide(*side)
	if err != nil {
		return err
	}

	return a.studyLoop(ctx, id, startSide)
}

func (a *app) stats(ctx context.Context, args []string) error {
	days := defaultStatsDays
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d <= 0 {
			return errUsage
		}
		days = d
	}

	us, err := a.api.Statistics.User(ctx)
	if err != nil {
		return err
	}

	ss, err := a.api.Sessions.Stats(ctx, days)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Cards learned:\t%d of %d\n", us.LearnedCards, us.TotalCards)
	fmt.Fprintf(w, "To review:\t%d\n", us.CardsToReview)
	fmt.Fprintf(w, "New to learn:\t%d\n", us.NewCardsToLearn)
	fmt.Fprintf(w, "Streak:\t%d days\n", us.LearningStreakDays)
	fmt.Fprintf(w, "Sessions (%dd):\t%d\n", days, ss.TotalSessions)
	fmt.Fprintf(w, "Cards reviewed (%dd):\t%d\n", days, ss.TotalCardsReviewed)
	fmt.Fprintf(w, "Accuracy (%dd):\t%.1f%%\n", days, ss.AverageAccuracy)

	return w.Flush()
}
