package aiparse

import (
	"fmt"
	"regexp"
	"strings"

	"aiustaz-backend/internal/models"
)

// Assignment marker patterns for the two supported languages. The model is
// prompted to start every assignment with "ЗАДАНИЕ N:" (ru) or
// "ТАПСЫРМА N:" (kk), but it does not always comply, so parsing degrades
// through three tiers: marker scan, paragraph split, equal line chunks.
var (
	markerRu = regexp.MustCompile(`(?i)ЗАДАНИЕ\s+(\d+):`)
	markerKk = regexp.MustCompile(`(?i)ТАПСЫРМА\s+(\d+):`)

	titleNoise = regexp.MustCompile(`^[:\-\*\#]+\s*`)
	leadingNum = regexp.MustCompile(`^\d+[\.\)]\s*`)
)

// ParseAssignments extracts up to count numbered assignments from a
// free-text model reply. lang selects the marker word ("kk" or "ru").
// Returns nil only when the reply is effectively empty.
func ParseAssignments(text string, count int, lang string) []models.Assignment {
	marker := markerRu
	prefix := "Задание"
	if lang == "kk" {
		marker = markerKk
		prefix = "Тапсырма"
	}

	if out := parseByMarkers(text, count, marker, prefix); len(out) > 0 {
		return out
	}
	if out := parseByParagraphs(text, count, prefix); len(out) > 0 {
		return out
	}
	return parseByChunks(text, count, prefix)
}

// parseByMarkers slices the text between successive "ЗАДАНИЕ N:" markers.
func parseByMarkers(text string, count int, marker *regexp.Regexp, prefix string) []models.Assignment {
	locs := marker.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var out []models.Assignment
	for i, loc := range locs {
		if len(out) >= count {
			break
		}

		num := text[loc[2]:loc[3]]
		bodyStart := loc[1]
		bodyEnd := len(text)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}

		body := strings.TrimSpace(text[bodyStart:bodyEnd])
		if body == "" {
			continue
		}

		title, description := splitTitle(body, 100)
		title = titleNoise.ReplaceAllString(title, "")

		out = append(out, models.Assignment{
			Title:       fmt.Sprintf("%s %s: %s", prefix, num, title),
			Description: description,
		})
	}
	return out
}

// parseByParagraphs falls back to double-newline paragraphs of substance.
func parseByParagraphs(text string, count int, prefix string) []models.Assignment {
	var out []models.Assignment
	n := 1
	for _, p := range strings.Split(text, "\n\n") {
		if len(out) >= count {
			break
		}
		p = strings.TrimSpace(p)
		if len([]rune(p)) <= 100 {
			continue
		}

		title, description := splitTitle(p, 80)
		title = leadingNum.ReplaceAllString(title, "")
		title = titleNoise.ReplaceAllString(title, "")

		out = append(out, models.Assignment{
			Title:       fmt.Sprintf("%s %d: %s", prefix, n, title),
			Description: description,
		})
		n++
	}
	return out
}

// parseByChunks is the last resort: split the non-empty lines into count
// roughly equal pieces.
func parseByChunks(text string, count int, prefix string) []models.Assignment {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 || count <= 0 {
		return nil
	}

	chunk := len(lines) / count
	if chunk == 0 {
		chunk = 1
	}

	var out []models.Assignment
	for i := 0; i < count && i*chunk < len(lines); i++ {
		start := i * chunk
		end := start + chunk
		if i == count-1 || end > len(lines) {
			end = len(lines)
		}

		part := lines[start:end]
		title := truncateRunes(part[0], 80)

		out = append(out, models.Assignment{
			Title:       fmt.Sprintf("%s %d: %s", prefix, i+1, title),
			Description: strings.Join(part, "\n"),
		})
	}
	return out
}

// splitTitle treats the first line as the title and the rest as the
// description; single-line bodies reuse a truncated body as title.
func splitTitle(body string, maxTitle int) (string, string) {
	parts := strings.SplitN(body, "\n", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return truncateRunes(body, maxTitle), body
}
