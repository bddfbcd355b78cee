package blogservice

import "strings"

const wordsPerMinute = 200

// readingTime estimates how many whole minutes a body takes to read, rounded
// up. Words are runs of non-whitespace; an empty or whitespace-only body has
// zero words and therefore a reading time of zero.
func readingTime(body string) int {
	words := len(strings.Fields(body))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
