package study

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransition_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from State
		ev   Event
		want State
	}{
		{StatePrompt, EventReveal, StateAnswer},
		{StatePrompt, EventFlip, StateAnswer},
		{StateAnswer, EventFlip, StatePrompt},
		{StateAnswer, EventMark, StateAnswered},
		{StateAnswered, EventAdvance, StateTransition},
		{StateTransition, EventNext, StatePrompt},
		{StateTransition, EventLast, StateComplete},
		{StatePrompt, EventEndEarly, StateComplete},
		{StateAnswer, EventEndEarly, StateComplete},
		{StateAnswered, EventEndEarly, StateComplete},
		{StateTransition, EventEndEarly, StateComplete},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_"+tt.ev.String(), func(t *testing.T) {
			t.Parallel()

			got, err := Transition(tt.from, tt.ev)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from State
		ev   Event
	}{
		{StateAnswer, EventReveal},
		{StatePrompt, EventMark},
		{StatePrompt, EventAdvance},
		{StatePrompt, EventNext},
		{StateAnswered, EventMark},
		{StateAnswered, EventReveal},
		{StateAnswered, EventFlip},
		{StateAnswered, EventNext},
		{StateTransition, EventMark},
		{StateTransition, EventAdvance},
		{StateComplete, EventEndEarly},
		{StateComplete, EventNext},
		{StateComplete, EventMark},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_"+tt.ev.String(), func(t *testing.T) {
			t.Parallel()

			got, err := Transition(tt.from, tt.ev)
			require.ErrorIs(t, err, ErrInvalidTransition)
			require.Equal(t, tt.from, got, "состояние не меняется")
		})
	}
}

// Из Answered любое событие ведёт только вперёд.
func TestTransition_AnsweredIsMonotonic(t *testing.T) {
	t.Parallel()

	for e := EventReveal; e <= EventEndEarly; e++ {
		got, _ := Transition(StateAnswered, e)
		require.NotEqual(t, StatePrompt, got, e.String())
		require.NotEqual(t, StateAnswer, got, e.String())
	}
}

func TestParseStartSide(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]StartSide{
		"":       SideFront,
		"front":  SideFront,
		" Back ": SideBack,
		"RANDOM": SideRandom,
	} {
		got, err := ParseStartSide(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := ParseStartSide("sideways")
	require.ErrorIs(t, err, ErrUnknownStartSide)
}
