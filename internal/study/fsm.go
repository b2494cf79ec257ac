// study — прохождение учебной сессии по порции карточек.
//
// Состояние карточки — один конечный автомат с чистой функцией Transition.
// Session ведёт пользователя по карточкам: показ, ответ, запись результата,
// пауза и переход к следующей карточке или завершение.
package study

import (
	"errors"
	"fmt"
	"strings"
)

// State — состояние текущей карточки.
type State int

const (
	// StatePrompt — видна лицевая сторона.
	StatePrompt State = iota
	// StateAnswer — видна обратная сторона.
	StateAnswer
	// StateAnswered — ответ принят, ждём автоматического перехода.
	StateAnswered
	// StateTransition — короткая пауза перед следующей карточкой.
	StateTransition
	// StateComplete — сессия закончена.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePrompt:
		return "prompt"
	case StateAnswer:
		return "answer"
	case StateAnswered:
		return "answered"
	case StateTransition:
		return "transition"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event — действие пользователя или таймера.
type Event int

const (
	EventReveal Event = iota
	EventFlip
	EventMark
	EventAdvance
	EventNext
	EventLast
	EventEndEarly
)

func (e Event) String() string {
	switch e {
	case EventReveal:
		return "reveal"
	case EventFlip:
		return "flip"
	case EventMark:
		return "mark"
	case EventAdvance:
		return "advance"
	case EventNext:
		return "next"
	case EventLast:
		return "last"
	case EventEndEarly:
		return "end_early"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownStartSide  = errors.New("unknown start side")
)

// Transition возвращает состояние после события e. Недопустимая пара
// оставляет состояние прежним и возвращает ErrInvalidTransition.
//
// Ответ принимается только после показа ответа (StateAnswer). Из
// StateAnswered нельзя вернуться к показу той же карточки: только пауза и
// следующая карточка, либо завершение.
func Transition(s State, e Event) (State, error) {
	if e == EventEndEarly && s != StateComplete {
		return StateComplete, nil
	}

	switch s {
	case StatePrompt:
		switch e {
		case EventReveal, EventFlip:
			return StateAnswer, nil
		}
	case StateAnswer:
		switch e {
		case EventFlip:
			return StatePrompt, nil
		case EventMark:
			return StateAnswered, nil
		}
	case StateAnswered:
		if e == EventAdvance {
			return StateTransition, nil
		}
	case StateTransition:
		switch e {
		case EventNext:
			return StatePrompt, nil
		case EventLast:
			return StateComplete, nil
		}
	}

	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}

// StartSide — какой стороной карточка показывается первой.
type StartSide string

const (
	SideFront  StartSide = "front"
	SideBack   StartSide = "back"
	SideRandom StartSide = "random"
)

// ParseStartSide разбирает значение из конфига или флага; пусто — front.
func ParseStartSide(s string) (StartSide, error) {
	switch side := StartSide(strings.ToLower(strings.TrimSpace(s))); side {
	case "":
		return SideFront, nil
	case SideFront, SideBack, SideRandom:
		return side, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStartSide, s)
	}
}
