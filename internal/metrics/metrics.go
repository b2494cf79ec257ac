// metrics — Prometheus-коллекторы клиента: HTTP-запросы к API, обновления
// токена и запись ответов на карточки.
//
// Все методы безопасны для nil *Metrics: без метрик клиент работает так же.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "twaincards_client"

// Результаты обновления токена.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
	RefreshQueued  = "queued"
)

// Результаты записи ответа.
const (
	AnswerRecorded = "recorded"
	AnswerFailed   = "failed"
)

// Исходы учебной сессии.
const (
	SessionCompleted  = "completed"
	SessionEndedEarly = "ended_early"
	SessionEmpty      = "empty"
)

type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
	answers   *prometheus.CounterVec
	sessions  *prometheus.CounterVec
}

// New создаёт коллекторы и регистрирует их в reg (если reg != nil).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Outgoing API requests by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of outgoing API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Token refresh attempts and queued requests by result.",
		}, []string{"result"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "study_answers_total",
			Help:      "Card answers sent to the backend by result.",
		}, []string{"result"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "study_sessions_total",
			Help:      "Study sessions by how they ended.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.refreshes, m.answers, m.sessions)
	}

	return m
}

// ObserveRequest учитывает завершённый запрос; code == 0 — сетевая ошибка.
func (m *Metrics) ObserveRequest(method string, code int, d time.Duration) {
	if m == nil {
		return
	}

	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}

	m.requests.WithLabelValues(method, label).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) Refresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) Answer(result string) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(result).Inc()
}

// Session учитывает завершение сессии.
func (m *Metrics) Session(outcome string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(outcome).Inc()
}
