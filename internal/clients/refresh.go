package clients

import (
	"context"
	"sync"
)

// refreshResult — исход одного обновления токена, общий для всех ожидающих.
type refreshResult struct {
	token string
	err   error
}

// refresher гарантирует, что одновременно идёт не больше одного обновления.
//
// Первый запрос, получивший 401, становится ведущим и вызывает fn. Остальные
// встают в очередь и получают его результат в порядке постановки. Флаг
// сбрасывается сразу после завершения fn, до повтора исходных запросов.
type refresher struct {
	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

// do возвращает свежий токен. leader == true, если fn вызвал этот вызов.
// Отмена ctx снимает ожидающего с ожидания; ведущий всегда доводит fn до конца.
func (r *refresher) do(ctx context.Context, fn func() (string, error)) (token string, leader bool, err error) {
	r.mu.Lock()
	if r.refreshing {
		ch := make(chan refreshResult, 1)
		r.waiters = append(r.waiters, ch)
		r.mu.Unlock()

		select {
		case res := <-ch:
			return res.token, false, res.err
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}

	r.refreshing = true
	r.mu.Unlock()

	tok, err := fn()

	r.mu.Lock()
	waiters := r.waiters
	r.waiters = nil
	r.refreshing = false
	r.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: tok, err: err}
	}

	return tok, true, err
}

// pending — число ожидающих в очереди.
func (r *refresher) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.waiters)
}
