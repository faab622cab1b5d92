package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "single alarm intent",
			text: "Set an alarm for 7 AM",
			want: 1,
		},
		{
			name: "single weather intent",
			text: "What's the weather in Paris?",
			want: 1,
		},
		{
			name: "two distinct intents",
			text: "Set an alarm for 7 AM and check the weather in Tokyo",
			want: 2,
		},
		{
			name: "three distinct intents",
			text: "Set a timer for 10 minutes, play some jazz, and remind me to call mom at 5 PM",
			want: 3,
		},
		{
			name: "repeated category counts once",
			text: "Send Bob a message saying hi and text Alice hello",
			want: 1,
		},
		{
			name: "unrecognized text floors at one",
			text: "blah blah blah",
			want: 1,
		},
		{
			name: "empty text floors at one",
			text: "",
			want: 1,
		},
		{
			name: "wake me variant",
			text: "Wake me at 6:30",
			want: 1,
		},
		{
			name: "forecast counts as weather",
			text: "Get the forecast for London",
			want: 1,
		},
		{
			name: "find counts as contact search",
			text: "Find Sarah in my contacts",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.text))
		})
	}
}

func TestCountCategoryCap(t *testing.T) {
	// Both messaging patterns match, but the category contributes once.
	text := "Send a message to Bob saying hello"
	assert.Equal(t, 1, Count(text))
}
