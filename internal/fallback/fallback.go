// Package fallback builds deterministic substitute content for the cases
// where the AI path fails or returns unusable output. Nothing here touches
// the network; the same input always yields the same result.
package fallback

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"aiustaz-backend/internal/models"
)

const (
	// DeckSize is the card count every fallback deck is padded to.
	DeckSize = 15

	defaultTitle = "Учебные карточки"
	maxTitleLen  = 50
)

var (
	wordPattern    = regexp.MustCompile(`[А-Яа-яA-Za-z]{5,}`)
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	titleStopWords = map[string]bool{
		"это": true, "что": true, "как": true, "для": true, "если": true,
		"или": true, "но": true, "на": true, "в": true, "с": true,
		"по": true, "из": true, "от": true,
	}
)

// Title derives a course title from the most frequent substantive words of
// the source text. Falls back to a generic title when nothing qualifies.
func Title(text string) string {
	words := wordPattern.FindAllString(truncate(text, 3000), -1)

	freq := make(map[string]int)
	order := make([]string, 0, len(words))
	for _, w := range words {
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	// Stable highest-frequency-first selection: sort candidates by count,
	// breaking ties by first appearance so repeated calls agree.
	var top []string
	for len(top) < 3 {
		best := ""
		bestCount := 0
		for _, w := range order {
			if titleStopWords[strings.ToLower(w)] || contains(top, w) {
				continue
			}
			if freq[w] > bestCount {
				best = w
				bestCount = freq[w]
			}
		}
		if best == "" {
			break
		}
		top = append(top, best)
	}

	if len(top) == 0 {
		return defaultTitle
	}

	title := strings.Join(top, " ")
	r := []rune(title)
	r[0] = unicode.ToUpper(r[0])
	return truncate(string(r), maxTitleLen)
}

// Flashcards builds a deck of DeckSize cards out of the source sentences:
// the front is the first four words of a sentence, the back is the full
// sentence. Generic placeholder cards pad the deck when the text is thin.
func Flashcards(text, title string) []models.Flashcard {
	var cards []models.Flashcard

	sentences := sentenceSplit.Split(truncate(text, 2000), -1)
	for _, s := range sentences {
		if len(cards) >= DeckSize {
			break
		}
		s = strings.TrimSpace(s)
		if len([]rune(s)) <= 25 {
			continue
		}
		words := strings.Fields(s)
		if len(words) <= 4 {
			continue
		}

		cards = append(cards, models.Flashcard{
			Front: truncate(strings.Join(words[:4], " ")+"...", 150),
			Back:  truncate(s, 250),
		})
	}

	for len(cards) < DeckSize {
		cards = append(cards, models.Flashcard{
			Front: fmt.Sprintf("Ключевой аспект %d темы", len(cards)+1),
			Back:  fmt.Sprintf("Важный элемент изучения «%s»", title),
		})
	}

	return cards
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
