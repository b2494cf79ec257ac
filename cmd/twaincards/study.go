package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	apierrors "github.com/pribylovaa/twaincards-client/internal/errors"
	"github.com/pribylovaa/twaincards-client/internal/models"
	"github.com/pribylovaa/twaincards-client/internal/study"
)

const renderInterval = 50 * time.Millisecond

// Текст карточек приходит от других пользователей (публичные коллекции),
// поэтому разметка и управляющие символы в терминал не попадают.
var strict = bluemonday.StrictPolicy()

func sanitize(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))

	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// studyLoop ведёт интерактивную сессию: строки ввода превращаются в события,
// таймерные переходы подхватываются периодической перерисовкой.
func (a *app) studyLoop(ctx context.Context, collectionID int64, side study.StartSide) error {
	sess := study.New(a.api.Study(), study.Options{
		StartSide:       side,
		BatchSize:       a.cfg.Study.BatchSize,
		AnswerDelay:     a.cfg.Study.AnswerDelay,
		TransitionDelay: a.cfg.Study.TransitionDelay,
		DeviceType:      a.cfg.Study.DeviceType,
		Platform:        runtime.GOOS,
		Logger:          a.log,
		Metrics:         a.metrics,
	})
	defer sess.Close()

	if err := sess.Start(ctx, collectionID); err != nil {
		if apierrors.IsForbidden(err) {
			fmt.Fprintln(a.out, "Daily study limit reached. Come back tomorrow.")
			return nil
		}
		return err
	}

	select {
	case <-sess.Done():
		fmt.Fprintln(a.out, "Nothing to study in this collection right now.")
		return nil
	default:
	}

	fmt.Fprintln(a.out, "Enter: show/flip, f: flip, y: knew it, n: didn't, q: finish.")

	stop := make(chan struct{})
	defer close(stop)

	lines := readLines(a.in, stop)
	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	r := renderer{out: a.out, last: -1}
	r.render(sess.Snapshot())

	for {
		select {
		case <-sess.Done():
			a.printSummary(sess.Summary())
			return nil

		case <-ctx.Done():
			_ = sess.EndEarly(context.WithoutCancel(ctx))
			ctx = context.WithoutCancel(ctx)

		case line, ok := <-lines:
			if !ok {
				// Ввод закончился: завершаем досрочно и ждём итог.
				lines = nil
				_ = sess.EndEarly(ctx)
				continue
			}
			a.handleKey(ctx, sess, line)
			r.render(sess.Snapshot())

		case <-ticker.C:
			r.render(sess.Snapshot())
		}
	}
}

func (a *app) handleKey(ctx context.Context, sess *study.Session, line string) {
	var err error

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "r":
		if sess.Snapshot().State == study.StatePrompt {
			err = sess.Reveal(ctx)
		} else {
			err = sess.Flip(ctx)
		}
	case "f":
		err = sess.Flip(ctx)
	case "y":
		err = sess.Mark(ctx, true)
	case "n":
		err = sess.Mark(ctx, false)
	case "q":
		err = sess.EndEarly(ctx)
	default:
		fmt.Fprintln(a.out, "Unknown key. Enter: show/flip, f: flip, y/n: answer, q: finish.")
		return
	}

	switch {
	case err == nil:
	case errors.Is(err, study.ErrBusy):
		fmt.Fprintln(a.out, "Answer recorded, next card is coming.")
	case errors.Is(err, study.ErrInvalidTransition) && isMark(line) && sess.Snapshot().State == study.StatePrompt:
		fmt.Fprintln(a.out, "Show the answer first (Enter).")
	case errors.Is(err, study.ErrInvalidTransition):
		fmt.Fprintln(a.out, "Not available right now.")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
}

func isMark(line string) bool {
	k := strings.ToLower(strings.TrimSpace(line))
	return k == "y" || k == "n"
}

func (a *app) printSummary(sum *models.SessionSummary) {
	if sum == nil {
		return
	}

	fmt.Fprintf(a.out, "Session complete: %d of %d correct (%.0f%%), %s.\n",
		sum.CorrectAnswers, sum.CardsStudied, sum.SuccessRate,
		(time.Duration(sum.TimeSpentSeconds) * time.Second).String())
}

// readLines читает ввод построчно; канал закрывается на EOF.
// После закрытия stop прочитанные строки отбрасываются.
func readLines(in io.Reader, stop <-chan struct{}) <-chan string {
	ch := make(chan string)

	go func() {
		defer close(ch)

		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-stop:
				return
			}
		}
	}()

	return ch
}

// renderer печатает карточку при смене индекса или состояния.
type renderer struct {
	out   io.Writer
	last  int
	state study.State
}

func (r *renderer) render(snap study.Snapshot) {
	if snap.Index == r.last && snap.State == r.state {
		return
	}
	r.last, r.state = snap.Index, snap.State

	c := snap.Card
	switch snap.State {
	case study.StatePrompt:
		fmt.Fprintf(r.out, "\n[%d/%d] %s\n", snap.Index+1, snap.Count, sanitize(c.FrontText))
	case study.StateAnswer:
		fmt.Fprintf(r.out, "[%d/%d] %s", snap.Index+1, snap.Count, sanitize(c.BackText))
		if c.PhoneticText != "" {
			fmt.Fprintf(r.out, " [%s]", sanitize(c.PhoneticText))
		}
		fmt.Fprintln(r.out)
		if c.ExampleUsage != "" {
			fmt.Fprintf(r.out, "  e.g. %s\n", sanitize(c.ExampleUsage))
		}
	case study.StateAnswered:
		fmt.Fprintf(r.out, "  score: %d/%d\n", snap.Tally.Correct, snap.Tally.Total)
	}
}
