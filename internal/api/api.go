// api — типизированные обёртки над REST API TwainCards.
//
// Каждая область бэкенда (auth, users, collections, ...) — отдельный тип с
// методами, повторяющими эндпоинты. Транспорт, токен и обновление сессии
// остаются в clients.Client; здесь только пути, параметры и модели.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pribylovaa/twaincards-client/internal/clients"
)

// Doer — транспорт запросов (clients.Client).
type Doer interface {
	Do(ctx context.Context, r *clients.Request, out any) error
}

// Tokens — запись токена после входа и удаление при выходе.
type Tokens interface {
	Save(ctx context.Context, token string, expiresIn time.Duration)
	Clear(ctx context.Context)
}

// API — все области API.
type API struct {
	Auth        *Auth
	Users       *Users
	Collections *Collections
	Cards       *Cards
	Tags        *Tags
	Learning    *Learning
	Sessions    *StudySessions
	Statistics  *Statistics
	Languages   *Languages
}

// New собирает API поверх транспорта d.
func New(d Doer, tokens Tokens) *API {
	return &API{
		Auth:        &Auth{d: d, tokens: tokens},
		Users:       &Users{d: d},
		Collections: &Collections{d: d},
		Cards:       &Cards{d: d},
		Tags:        &Tags{d: d},
		Learning:    &Learning{d: d},
		Sessions:    &StudySessions{d: d},
		Statistics:  &Statistics{d: d},
		Languages:   &Languages{d: d},
	}
}

// Study — адаптер для study.Session.
func (a *API) Study() *StudyGateway {
	return &StudyGateway{learning: a.Learning, sessions: a.Sessions}
}

func get(ctx context.Context, d Doer, path string, q url.Values, out any) error {
	return d.Do(ctx, &clients.Request{Method: http.MethodGet, Path: path, Query: q}, out)
}

func post(ctx context.Context, d Doer, path string, body, out any) error {
	return d.Do(ctx, &clients.Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func put(ctx context.Context, d Doer, path string, body, out any) error {
	return d.Do(ctx, &clients.Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func del(ctx context.Context, d Doer, path string) error {
	return d.Do(ctx, &clients.Request{Method: http.MethodDelete, Path: path}, nil)
}

// pageQuery — параметры страницы Spring Data.
func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
