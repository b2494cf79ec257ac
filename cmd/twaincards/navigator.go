package main

import (
	"fmt"
	"io"
	"sync"
)

// cliNavigator — «экран» CLI: текущая команда и подсказка о повторном входе.
type cliNavigator struct {
	mu       sync.Mutex
	out      io.Writer
	location string
	notified bool
}

func newCLINavigator(out io.Writer) *cliNavigator {
	return &cliNavigator{out: out, location: "/"}
}

// SetLocation запоминает выполняемую команду как путь: "/login", "/study".
func (n *cliNavigator) SetLocation(cmd string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = "/" + cmd
}

func (n *cliNavigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// RedirectToLogin печатает подсказку один раз за запуск.
func (n *cliNavigator) RedirectToLogin(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.notified {
		return
	}
	n.notified = true
	n.location = "/login"

	fmt.Fprintf(n.out, "Session expired (%s). Please log in again: twaincards login <username> <password>\n", reason)
}

func (n *cliNavigator) Redirected() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.notified
}
