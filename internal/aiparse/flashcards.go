package aiparse

import (
	"encoding/json"
	"regexp"
	"strings"

	"aiustaz-backend/internal/models"
)

const (
	maxFrontLen = 200
	maxBackLen  = 300
	minSideLen  = 3
)

var (
	structuralChars = regexp.MustCompile("[\\[\\]{}\"'`]")
	markupTags      = regexp.MustCompile(`<[^>]+>`)
	multiSpace      = regexp.MustCompile(`\s+`)
)

// ParseFlashcards recovers a flashcard array from a model reply. Returns
// nil when no array-shaped JSON with at least one card can be located.
func ParseFlashcards(text string) []models.Flashcard {
	region, ok := ExtractRaw(text)
	if !ok {
		return nil
	}

	var cards []models.Flashcard
	if err := json.Unmarshal([]byte(region), &cards); err != nil {
		return nil
	}
	if len(cards) == 0 {
		return nil
	}
	return cards
}

// CleanFlashcards strips structural markup from both sides of each card and
// drops cards that end up too short to be useful. Surviving cards are
// length-capped.
func CleanFlashcards(cards []models.Flashcard) []models.Flashcard {
	cleaned := make([]models.Flashcard, 0, len(cards))

	for _, c := range cards {
		front := cleanSide(c.Front)
		back := cleanSide(c.Back)

		if len([]rune(front)) < minSideLen || len([]rune(back)) < minSideLen {
			continue
		}

		cleaned = append(cleaned, models.Flashcard{
			Front: truncateRunes(front, maxFrontLen),
			Back:  truncateRunes(back, maxBackLen),
		})
	}

	return cleaned
}

func cleanSide(s string) string {
	s = structuralChars.ReplaceAllString(s, "")
	s = markupTags.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
