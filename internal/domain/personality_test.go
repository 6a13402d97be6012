package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstPick(int) int { return 0 }

func TestPersonalityFor(t *testing.T) {
	tests := []struct {
		count int64
		want  Mood
	}{
		{count: 250, want: MoodOverloaded},
		{count: 100, want: MoodOverloaded},
		{count: 99, want: MoodExcited},
		{count: 50, want: MoodExcited},
		{count: 10, want: MoodHappy},
		{count: 9, want: MoodNeutral},
		{count: 0, want: MoodNeutral},
		{count: -1, want: MoodWorried},
		{count: -10, want: MoodWorried},
		{count: -11, want: MoodDepressed},
		{count: -50, want: MoodDepressed},
		{count: -1000, want: MoodDepressed},
	}

	for _, tt := range tests {
		p := PersonalityFor(tt.count, firstPick)
		assert.Equal(t, tt.want, p.Mood, "count %d", tt.count)
		assert.NotEmpty(t, p.Message)
		assert.NotEmpty(t, p.Emoji)
	}
}

func TestPersonalityFor_UsesPicker(t *testing.T) {
	lastPick := func(n int) int { return n - 1 }

	p := PersonalityFor(0, lastPick)
	assert.Equal(t, "Zero is my middle name. Actually, it's my only name.", p.Message)
	assert.Nil(t, p.Milestone)
}

func TestMilestoneMessage(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  string
		ok    bool
	}{
		{name: "fibonacci wins over power of two", count: 8, want: fibonacciMessages[0], ok: true},
		{name: "negative fibonacci", count: -13, want: fibonacciMessages[0], ok: true},
		{name: "power of two", count: 64, want: powerOfTwoMessages[0], ok: true},
		{name: "fun number", count: 42, want: funNumberMessages[42][0], ok: true},
		{name: "negative fun number", count: -404, want: funNumberMessages[404][0], ok: true},
		{name: "nothing special", count: 7, ok: false},
		{name: "zero", count: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MilestoneMessage(tt.count, firstPick)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClickReaction(t *testing.T) {
	tests := map[int64]string{
		11:  "Whoa, big spender! 🤑",
		6:   "Now we're cooking! 🔥",
		1:   "Up we go! 🚀",
		0:   "Interesting choice! 🤔",
		-1:  "Down we go! 🔽",
		-6:  "Going down! 🎢",
		-11: "Ouch, that's a big drop! 📉",
	}

	for amount, want := range tests {
		assert.Equal(t, want, ClickReaction(amount), "amount %d", amount)
	}
}
