// store — реализации token.Store: в памяти, в JSON-файле и в Redis.
package store

import "errors"

var (
	// ErrEmptyKey — пустой ключ не поддерживается ни одним хранилищем.
	ErrEmptyKey = errors.New("empty key")
)
