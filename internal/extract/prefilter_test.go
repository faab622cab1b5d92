package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamyoo/atomic-router/internal/domain"
)

func TestNarrow(t *testing.T) {
	tools := domain.DemoTools()

	t.Run("single keyword match narrows to one tool", func(t *testing.T) {
		narrowed := Narrow("Set an alarm for 7 am", tools)
		require.Len(t, narrowed, 1)
		assert.Equal(t, ToolAlarm, narrowed[0].Name)
	})

	t.Run("multiple matches keep the full list", func(t *testing.T) {
		narrowed := Narrow("Play the weather report", tools)
		assert.Len(t, narrowed, len(tools))
	})

	t.Run("no match keeps the full list", func(t *testing.T) {
		narrowed := Narrow("do something for me", tools)
		assert.Len(t, narrowed, len(tools))
	})

	t.Run("unavailable tools never match", func(t *testing.T) {
		weatherOnly := tools[:1]
		require.Equal(t, ToolWeather, weatherOnly[0].Name)

		narrowed := Narrow("Set an alarm for 7 am", weatherOnly)
		require.Len(t, narrowed, 1)
		assert.Equal(t, ToolWeather, narrowed[0].Name)
	})
}

func TestBestTool(t *testing.T) {
	tools := domain.DemoTools()

	assert.Equal(t, ToolAlarm, BestTool("wake me at 6", tools))
	assert.Equal(t, ToolTimer, BestTool("set a timer for 10 minutes", tools))
	assert.Equal(t, ToolMessage, BestTool("text Bob saying hi", tools))
	assert.Equal(t, "", BestTool("play the weather report", tools))
	assert.Equal(t, "", BestTool("hello there", tools))
}
