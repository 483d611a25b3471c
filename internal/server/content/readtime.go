package content

import (
	"fmt"
	"strings"
)

const wordsPerMinute = 200

// ReadTime returns "<k> min read" with k = ceil(words/200), never below 1.
func ReadTime(body string) string {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
