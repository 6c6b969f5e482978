package content

import (
	"strings"

	"github.com/laneadvisory/lanesite/internal/models"
)

const wordsPerMinute = 200

// EstimateReadingTime returns whole minutes to read body, never less than one
func EstimateReadingTime(body []models.Block) int {
	words := len(strings.Fields(models.PlainText(body)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return max(minutes, 1)
}
