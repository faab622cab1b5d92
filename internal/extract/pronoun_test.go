package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProperNouns(t *testing.T) {
	t.Run("names in order of appearance", func(t *testing.T) {
		nouns := ProperNouns("Find Marcus in my contacts and text Sarah saying hi")
		assert.Equal(t, []string{"Marcus", "Sarah"}, nouns)
	})

	t.Run("sentence initial verbs excluded", func(t *testing.T) {
		assert.Empty(t, ProperNouns("Set an alarm for 7 and Check the weather"))
	})

	t.Run("no capitals", func(t *testing.T) {
		assert.Empty(t, ProperNouns("play some jazz"))
	})
}

func TestIsPronoun(t *testing.T) {
	for _, p := range []string{"him", "her", "them", "He", "SHE", "they"} {
		assert.True(t, IsPronoun(p), p)
	}
	for _, p := range []string{"John", "mom", ""} {
		assert.False(t, IsPronoun(p), p)
	}
}

func TestResolvePronoun(t *testing.T) {
	assert.Equal(t, "Sarah", ResolvePronoun("her", []string{"Sarah", "Bob"}))
	assert.Equal(t, "Bob", ResolvePronoun("Bob", []string{"Sarah"}))
	assert.Equal(t, "him", ResolvePronoun("him", nil))
}
