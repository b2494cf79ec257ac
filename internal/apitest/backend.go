// apitest — поддельный бэкенд TwainCards для тестов клиента.
//
// Поднимает httptest.Server с роутером chi: вход, обновление токена по
// cookie сессии, профиль, коллекции, изучение карточек и учебные сессии.
// Токены — настоящие JWT (HS256), их можно объявить недействительными, чтобы
// вызвать 401. Каждый запрос записывается для проверок.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/twaincards-client/internal/models"
)

// SessionCookie — имя cookie сессии, по которой выдаётся новый токен.
const SessionCookie = "TWAIN_SESSION"

var signingKey = []byte("apitest-secret")

// Recorded — запрос, который получил бэкенд.
type Recorded struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	Body          []byte
}

// Account — пользователь поддельного бэкенда.
type Account struct {
	ID       int64
	Username string
	Email    string
	Password string
	Role     string
}

type stub struct {
	status int
	body   any
}

// Backend — поддельный бэкенд.
type Backend struct {
	Server *httptest.Server

	mu            sync.Mutex
	accounts      map[string]Account
	tokens        map[string]string // token -> username
	sessions      map[string]string // cookie -> username
	holds         map[string]chan struct{}
	stubs         map[string]stub
	requests      []Recorded
	refreshCalls  int
	failRefresh   bool
	dailyLimit    bool
	failAnswers   bool
	cards         map[int64][]models.Card
	answers       []models.CardAnswerRequest
	created       []models.CreateSessionRequest
	completed     []models.CompleteSessionRequest
	nextSessionID int64
}

// New поднимает бэкенд с одним пользователем mark/secret (id 1, USER).
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		accounts: map[string]Account{
			"mark": {ID: 1, Username: "mark", Email: "mark@twain.cards", Password: "secret", Role: "USER"},
		},
		tokens:        make(map[string]string),
		sessions:      make(map[string]string),
		holds:         make(map[string]chan struct{}),
		stubs:         make(map[string]stub),
		cards:         make(map[int64][]models.Card),
		nextSessionID: 100,
	}

	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)

	return b
}

// URL — базовый адрес бэкенда.
func (b *Backend) URL() string { return b.Server.URL }

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record, b.hold)

	r.Post("/api/auth/login", b.login)
	r.Post("/api/auth/refresh-token", b.refresh)

	r.Group(func(r chi.Router) {
		r.Use(b.authenticated)

		r.Get("/api/users/me", b.me)
		r.Get("/api/users", b.listUsers)
		r.Get("/api/collections/{id}", b.collection)
		r.Get("/api/learning/cards-to-learn", b.cardsToLearn)
		r.Post("/api/learning/answer", b.answer)
		r.Post("/api/study-sessions", b.createSession)
		r.Post("/api/study-sessions/complete", b.completeSession)
		r.HandleFunc("/*", b.stubbed)
	})

	return r
}

// --- настройка ---

// AddAccount регистрирует пользователя.
func (b *Backend) AddAccount(a Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[a.Username] = a
}

// IssueToken выдаёт действующий токен и cookie сессии для username.
func (b *Backend) IssueToken(username string) (token, session string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueLocked(username)
}

// Expire делает токен недействительным: следующий запрос с ним получит 401.
func (b *Backend) Expire(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tokens, token)
}

// ExpireAll делает недействительными все выданные токены.
func (b *Backend) ExpireAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]string)
}

// FailRefresh заставляет /api/auth/refresh-token отвечать 401.
func (b *Backend) FailRefresh(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failRefresh = fail
}

// DailyLimitReached заставляет POST /api/study-sessions отвечать 403.
func (b *Backend) DailyLimitReached(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dailyLimit = v
}

// FailAnswers заставляет /api/learning/answer отвечать 500.
func (b *Backend) FailAnswers(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failAnswers = v
}

// SetCards задаёт карточки коллекции.
func (b *Backend) SetCards(collectionID int64, cards []models.Card) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards[collectionID] = cards
}

// Stub задаёт ответ для метода и пути, которые не обслуживает роутер.
func (b *Backend) Stub(method, path string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stubs[method+" "+path] = stub{status: status, body: body}
}

// Hold задерживает запросы к path до вызова release.
func (b *Backend) Hold(path string) (release func()) {
	ch := make(chan struct{})

	b.mu.Lock()
	b.holds[path] = ch
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.holds, path)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// --- наблюдение ---

func (b *Backend) RefreshCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// RequestsTo — записанные запросы к path.
func (b *Backend) RequestsTo(path string) []Recorded {
	var out []Recorded
	for _, r := range b.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Answers — ответы на карточки, принятые бэкендом.
func (b *Backend) Answers() []models.CardAnswerRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.CardAnswerRequest(nil), b.answers...)
}

func (b *Backend) CreatedSessions() []models.CreateSessionRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.CreateSessionRequest(nil), b.created...)
}

func (b *Backend) CompletedSessions() []models.CompleteSessionRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.CompleteSessionRequest(nil), b.completed...)
}

// --- мидлвары ---

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-Id"),
			Body:          body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) hold(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ch := b.holds[r.URL.Path]
		b.mu.Unlock()

		if ch != nil {
			select {
			case <-ch:
			case <-r.Context().Done():
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

type ctxAccount struct{}

func contextWithAccount(r *http.Request, a Account) context.Context {
	return context.WithValue(r.Context(), ctxAccount{}, a)
}

func accountFrom(r *http.Request) Account {
	a, _ := r.Context().Value(ctxAccount{}).(Account)
	return a
}

func (b *Backend) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")

		b.mu.Lock()
		username, valid := b.tokens[tok]
		acc := b.accounts[username]
		b.mu.Unlock()

		if !ok || !valid {
			writeError(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithAccount(r, acc)))
	})
}

// --- обработчики ---

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	b.mu.Lock()
	var acc Account
	found := false
	for _, a := range b.accounts {
		if a.Username == req.UsernameOrEmail || a.Email == req.UsernameOrEmail {
			acc, found = a, true
			break
		}
	}
	if !found || acc.Password != req.Password {
		b.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	tok, session := b.issueLocked(acc.Username)
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: session, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, models.AuthResponse{
		UserID:   acc.ID,
		Username: acc.Username,
		Email:    acc.Email,
		Role:     acc.Role,
		Token:    tok,
		Message:  "Login successful",
	})
}

func (b *Backend) refresh(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.refreshCalls++
	fail := b.failRefresh
	b.mu.Unlock()

	c, err := r.Cookie(SessionCookie)
	if fail || err != nil {
		writeError(w, http.StatusUnauthorized, "Refresh token is invalid")
		return
	}

	b.mu.Lock()
	username, ok := b.sessions[c.Value]
	var tok string
	if ok {
		tok = b.mintLocked(username)
		b.tokens[tok] = username
	}
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnauthorized, "Refresh token is invalid")
		return
	}

	writeJSON(w, http.StatusOK, models.RefreshResponse{Token: tok})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r)
	writeJSON(w, http.StatusOK, models.User{
		ID:       acc.ID,
		Username: acc.Username,
		Email:    acc.Email,
		Role:     acc.Role,
		IsActive: true,
	})
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	if accountFrom(r).Role != "ADMIN" {
		writeError(w, http.StatusForbidden, "Access Denied")
		return
	}

	b.mu.Lock()
	users := make([]models.User, 0, len(b.accounts))
	for _, a := range b.accounts {
		users = append(users, models.User{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role})
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, users)
}

func (b *Backend) collection(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}

	b.mu.Lock()
	cards, ok := b.cards[id]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Collection not found with id: "+chi.URLParam(r, "id"))
		return
	}

	writeJSON(w, http.StatusOK, models.Collection{
		ID:        id,
		UserID:    accountFrom(r).ID,
		Name:      fmt.Sprintf("Collection %d", id),
		CardCount: len(cards),
	})
}

func (b *Backend) cardsToLearn(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.URL.Query().Get("collectionId"), 10, 64)
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	b.mu.Lock()
	cards := append([]models.Card(nil), b.cards[id]...)
	b.mu.Unlock()

	if len(cards) > limit {
		cards = cards[:limit]
	}

	writeJSON(w, http.StatusOK, cards)
}

func (b *Backend) answer(w http.ResponseWriter, r *http.Request) {
	var req models.CardAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	b.mu.Lock()
	fail := b.failAnswers
	if !fail {
		b.answers = append(b.answers, req)
	}
	b.mu.Unlock()

	if fail {
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	status := models.StatusLearning
	if req.IsCorrect {
		status = models.StatusReview
	}
	writeJSON(w, http.StatusOK, models.LearningProgress{
		UserID:         accountFrom(r).ID,
		CardID:         req.CardID,
		LearningStatus: status,
	})
}

func (b *Backend) createSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	b.mu.Lock()
	if b.dailyLimit {
		b.mu.Unlock()
		writeError(w, http.StatusForbidden, "Daily study limit reached")
		return
	}
	b.nextSessionID++
	id := b.nextSessionID
	b.created = append(b.created, req)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, models.StudySession{ID: id, CollectionID: req.CollectionID})
}

func (b *Backend) completeSession(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	b.mu.Lock()
	b.completed = append(b.completed, req)
	b.mu.Unlock()

	var rate float64
	if req.CardsReviewed > 0 {
		rate = float64(req.CorrectAnswers) / float64(req.CardsReviewed) * 100
	}

	writeJSON(w, http.StatusOK, models.SessionSummary{
		SessionID:        req.SessionID,
		CardsStudied:     req.CardsReviewed,
		CorrectAnswers:   req.CorrectAnswers,
		IncorrectAnswers: req.CardsReviewed - req.CorrectAnswers,
		SuccessRate:      rate,
		TimeSpentSeconds: 42,
	})
}

func (b *Backend) stubbed(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	s, ok := b.stubs[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "No handler for "+r.Method+" "+r.URL.Path)
		return
	}

	if s.body == nil {
		w.WriteHeader(s.status)
		return
	}
	writeJSON(w, s.status, s.body)
}

// --- утилиты ---

// issueLocked выдаёт токен и сессию; вызывается под b.mu.
func (b *Backend) issueLocked(username string) (string, string) {
	tok := b.mintLocked(username)
	b.tokens[tok] = username

	session := uuid.NewString()
	b.sessions[session] = username

	return tok, session
}

// mintLocked подписывает JWT с клеймами бэкенда.
func (b *Backend) mintLocked(username string) string {
	acc := b.accounts[username]

	claims := jwt.MapClaims{
		"sub":    acc.Username,
		"userId": acc.ID,
		"role":   acc.Role,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(time.Hour).Unix(),
		"jti":    uuid.NewString(),
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}

	return tok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"status":    status,
		"message":   msg,
		"details":   "",
		"timestamp": time.Now().Format("2006-01-02T15:04:05"),
	})
}
