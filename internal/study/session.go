package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	apierrors "github.com/pribylovaa/twaincards-client/internal/errors"
	"github.com/pribylovaa/twaincards-client/internal/metrics"
	"github.com/pribylovaa/twaincards-client/internal/models"
	"github.com/pribylovaa/twaincards-client/internal/pkg/log"
)

//go:generate mockgen -destination=mocks/mock_backend.go -package=mocks . Backend

// Значения по умолчанию.
const (
	DefaultBatchSize       = 20
	DefaultAnswerDelay     = 950 * time.Millisecond
	DefaultTransitionDelay = 50 * time.Millisecond
)

var (
	ErrNotStarted     = errors.New("session not started")
	ErrAlreadyStarted = errors.New("session already started")
	// ErrBusy — ответ уже принят, карточка ждёт перехода.
	ErrBusy = errors.New("answer already recorded, wait for the next card")
)

// Backend — вызовы API, нужные сессии.
type Backend interface {
	CardsToLearn(ctx context.Context, collectionID int64, limit int) ([]models.Card, error)
	CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.StudySession, error)
	RecordAnswer(ctx context.Context, req models.CardAnswerRequest) error
	CompleteSession(ctx context.Context, req models.CompleteSessionRequest) (*models.SessionSummary, error)
}

// Options — параметры сессии. Нулевые значения заменяются значениями по умолчанию.
type Options struct {
	StartSide       StartSide
	BatchSize       int
	AnswerDelay     time.Duration
	TransitionDelay time.Duration
	DeviceType      string
	Platform        string

	Clock Clock
	// Coin решает для SideRandom, начинать ли с обратной стороны.
	Coin    func() bool
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Tally — текущий счёт сессии.
type Tally struct {
	Total     int
	Correct   int
	Incorrect int
	StartedAt time.Time
}

// Snapshot — состояние сессии для отображения.
type Snapshot struct {
	State     State
	Card      models.Card
	Index     int
	Count     int
	Tally     Tally
	SessionID int64
}

// Session — одна учебная сессия. Методы безопасны для конкурентного вызова;
// события обрабатываются по одному.
type Session struct {
	backend Backend
	opts    Options
	log     *slog.Logger

	mu        sync.Mutex
	started   bool
	ready     bool
	ended     bool
	early     bool
	state     State
	cards     []models.Card
	idx       int
	cardStart time.Time
	// backFirst — карточка начата с обратной стороны: лицевая сторона
	// для неё уже ответ, и отметка с неё допустима.
	backFirst bool
	tally     Tally
	timer     Timer

	collectionID int64
	sessionID    int64
	// bg — контекст фоновых вызовов: живёт дольше запроса, начавшего сессию.
	bg context.Context

	answers sync.WaitGroup
	jobs    sync.WaitGroup

	done    chan struct{}
	summary *models.SessionSummary
}

// New создаёт сессию поверх backend.
func New(backend Backend, opts Options) *Session {
	if opts.StartSide == "" {
		opts.StartSide = SideFront
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.AnswerDelay <= 0 {
		opts.AnswerDelay = DefaultAnswerDelay
	}
	if opts.TransitionDelay <= 0 {
		opts.TransitionDelay = DefaultTransitionDelay
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Coin == nil {
		opts.Coin = func() bool { return rand.IntN(2) == 1 }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Session{
		backend: backend,
		opts:    opts,
		log:     opts.Logger,
		done:    make(chan struct{}),
	}
}

// Start загружает карточки и открывает сессию на бэкенде. Пустая порция сразу
// завершает сессию без обращения к бэкенду сессий. 403 при открытии (дневной
// лимит) возвращается вызывающему.
func (s *Session) Start(ctx context.Context, collectionID int64) error {
	const op = "study.session.Start"

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrAlreadyStarted)
	}
	s.started = true
	s.collectionID = collectionID
	s.bg = log.Into(context.WithoutCancel(ctx), s.log)
	s.mu.Unlock()

	l := s.log.With(slog.String("op", op), slog.Int64("collection_id", collectionID))

	cards, err := s.backend.CardsToLearn(ctx, collectionID, s.opts.BatchSize)
	if err != nil {
		s.reset()
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(cards) == 0 {
		l.Info("study_empty_batch")

		s.mu.Lock()
		s.state = StateComplete
		s.ready = true
		s.ended = true
		s.tally.StartedAt = s.opts.Clock.Now()
		s.summary = &models.SessionSummary{CollectionID: collectionID}
		s.mu.Unlock()

		s.opts.Metrics.Session(metrics.SessionEmpty)
		close(s.done)
		return nil
	}

	var sessionID int64
	sess, err := s.backend.CreateSession(ctx, models.CreateSessionRequest{
		CollectionID: collectionID,
		DeviceType:   s.opts.DeviceType,
		Platform:     s.opts.Platform,
	})
	switch {
	case err == nil:
		sessionID = sess.ID
	case apierrors.IsForbidden(err):
		s.reset()
		return fmt.Errorf("%s: %w", op, err)
	case ctx.Err() != nil:
		s.reset()
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		// Без сессии ответы записываются без sessionId, итог считается локально.
		l.Warn("study_session_create_failed", slog.String("err", err.Error()))
	}

	s.mu.Lock()
	s.cards = cards
	s.sessionID = sessionID
	s.tally = Tally{StartedAt: s.opts.Clock.Now()}
	s.ready = true
	s.enterCardLocked(0)
	s.mu.Unlock()

	l.Info("study_started", slog.Int("cards", len(cards)), slog.Int64("session_id", sessionID))

	return nil
}

// reset откатывает неудачный Start, чтобы его можно было повторить.
func (s *Session) reset() {
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
}

// Reveal показывает ответ.
func (s *Session) Reveal(context.Context) error {
	return s.apply("study.session.Reveal", EventReveal)
}

// Flip переворачивает карточку до ответа.
func (s *Session) Flip(context.Context) error {
	return s.apply("study.session.Flip", EventFlip)
}

func (s *Session) apply(op string, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return fmt.Errorf("%s: %w", op, ErrNotStarted)
	}

	next, err := Transition(s.state, e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.state = next

	return nil
}

// Mark принимает ответ на текущую карточку. Счёт обновляется сразу; запись
// ответа на бэкенде идёт в фоне, её ошибка только логируется. Через
// AnswerDelay карточка уходит в паузу, затем на следующую или в завершение.
func (s *Session) Mark(ctx context.Context, correct bool) error {
	const op = "study.session.Mark"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return fmt.Errorf("%s: %w", op, ErrNotStarted)
	}
	if s.state == StateAnswered || s.state == StateTransition {
		return fmt.Errorf("%s: %w", op, ErrBusy)
	}

	from := s.state
	if from == StatePrompt && s.backFirst {
		from = StateAnswer
	}

	next, err := Transition(from, EventMark)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.state = next

	elapsed := s.opts.Clock.Now().Sub(s.cardStart)
	s.tally.Total++
	if correct {
		s.tally.Correct++
	} else {
		s.tally.Incorrect++
	}

	req := models.CardAnswerRequest{
		CardID:         s.cards[s.idx].ID,
		IsCorrect:      correct,
		ResponseTimeMs: elapsed.Milliseconds(),
	}
	if s.sessionID != 0 {
		id := s.sessionID
		req.SessionID = &id
	}

	s.answers.Add(1)
	go s.recordAnswer(context.WithoutCancel(ctx), req)

	s.timer = s.opts.Clock.AfterFunc(s.opts.AnswerDelay, s.advance)

	return nil
}

func (s *Session) recordAnswer(ctx context.Context, req models.CardAnswerRequest) {
	const op = "study.session.recordAnswer"
	defer s.answers.Done()

	if err := s.backend.RecordAnswer(ctx, req); err != nil {
		s.opts.Metrics.Answer(metrics.AnswerFailed)
		s.log.Warn("answer_record_failed",
			slog.String("op", op),
			slog.Int64("card_id", req.CardID),
			slog.String("err", err.Error()),
		)
		return
	}

	s.opts.Metrics.Answer(metrics.AnswerRecorded)
}

// advance — Answered -> Transition по таймеру.
func (s *Session) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Transition(s.state, EventAdvance)
	if err != nil {
		// Сессию уже завершили досрочно.
		return
	}
	s.state = next
	s.timer = s.opts.Clock.AfterFunc(s.opts.TransitionDelay, s.nextCard)
}

// nextCard — Transition -> следующая карточка или Complete.
func (s *Session) nextCard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateTransition {
		return
	}

	if s.idx+1 < len(s.cards) {
		s.state, _ = Transition(s.state, EventNext)
		s.enterCardLocked(s.idx + 1)
		return
	}

	s.state, _ = Transition(s.state, EventLast)
	s.completeLocked()
}

// enterCardLocked делает карточку i текущей. Отсчёт времени ответа
// начинается здесь, один раз на карточку.
func (s *Session) enterCardLocked(i int) {
	s.idx = i
	s.state = StatePrompt

	back := false
	switch s.opts.StartSide {
	case SideBack:
		back = true
	case SideRandom:
		back = s.opts.Coin()
	}
	s.backFirst = back
	if back {
		s.state, _ = Transition(s.state, EventFlip)
	}

	s.cardStart = s.opts.Clock.Now()
}

// EndEarly завершает сессию из любого состояния.
func (s *Session) EndEarly(ctx context.Context) error {
	const op = "study.session.EndEarly"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return fmt.Errorf("%s: %w", op, ErrNotStarted)
	}
	if s.ended {
		return nil
	}

	s.state, _ = Transition(s.state, EventEndEarly)
	s.early = true
	s.log.Info("study_ended_early", slog.Int("answered", s.tally.Total))
	s.completeLocked()

	return nil
}

// completeLocked останавливает таймер и в фоне отправляет итог сессии.
func (s *Session) completeLocked() {
	if s.ended {
		return
	}
	s.ended = true
	s.state = StateComplete

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	req := models.CompleteSessionRequest{
		SessionID:      s.sessionID,
		CardsReviewed:  s.tally.Total,
		CorrectAnswers: s.tally.Correct,
	}
	local := s.localSummaryLocked()

	outcome := metrics.SessionCompleted
	if s.early {
		outcome = metrics.SessionEndedEarly
	}

	s.jobs.Add(1)
	go s.finish(req, local, outcome)
}

func (s *Session) finish(req models.CompleteSessionRequest, local models.SessionSummary, outcome string) {
	const op = "study.session.finish"
	defer s.jobs.Done()

	// Итог отправляется после того, как записаны все ответы.
	s.answers.Wait()

	l := log.From(s.bg).With(slog.String("op", op), slog.Int64("session_id", req.SessionID))

	summary := &local
	if req.SessionID != 0 {
		got, err := s.backend.CompleteSession(s.bg, req)
		if err != nil {
			l.Warn("study_complete_failed", slog.String("err", err.Error()))
		} else {
			summary = got
		}
	}

	l.Info("study_completed",
		slog.Int("cards_reviewed", req.CardsReviewed),
		slog.Int("correct", req.CorrectAnswers),
	)
	s.opts.Metrics.Session(outcome)

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()

	close(s.done)
}

// localSummaryLocked — итог из локального счёта, если бэкенд его не вернул.
func (s *Session) localSummaryLocked() models.SessionSummary {
	var rate float64
	if s.tally.Total > 0 {
		rate = math.Round(float64(s.tally.Correct)/float64(s.tally.Total)*10000) / 100
	}

	return models.SessionSummary{
		SessionID:        s.sessionID,
		CollectionID:     s.collectionID,
		CardsStudied:     s.tally.Total,
		CorrectAnswers:   s.tally.Correct,
		IncorrectAnswers: s.tally.Incorrect,
		SuccessRate:      rate,
		TimeSpentSeconds: int64(s.opts.Clock.Now().Sub(s.tally.StartedAt).Seconds()),
	}
}

// Done закрывается, когда итог сессии готов.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait ждёт завершения сессии и возвращает итог.
func (s *Session) Wait(ctx context.Context) (*models.SessionSummary, error) {
	select {
	case <-s.done:
		return s.Summary(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Summary — итог сессии; nil, пока она не завершена.
func (s *Session) Summary() *models.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summary == nil {
		return nil
	}
	sum := *s.summary
	return &sum
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:     s.state,
		Index:     s.idx,
		Count:     len(s.cards),
		Tally:     s.tally,
		SessionID: s.sessionID,
	}
	if s.idx < len(s.cards) {
		snap.Card = s.cards[s.idx]
	}

	return snap
}

// Close останавливает таймер и дожидается фоновых вызовов.
func (s *Session) Close() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.answers.Wait()
	s.jobs.Wait()
}
