package quiz

import (
	"encoding/json"
	"strings"
)

// Recognized question types.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeMatching       = "matching"
	TypeFillInBlank    = "fill_in_blank"
)

// MinQuestions is the minimum surviving-question count below which a
// generation call is treated as failed rather than returned partial.
const MinQuestions = 5

// RawQuestion is the untrusted shape a question arrives in from the model.
// The correct answer is kept raw because the model emits it as an index, a
// boolean, or the option text interchangeably; Normalize resolves it.
type RawQuestion struct {
	Type        string          `json:"type"`
	Question    string          `json:"question"`
	Options     []string        `json:"options"`
	AnswerSnake json.RawMessage `json:"correct_answer"`
	AnswerCamel json.RawMessage `json:"correctAnswer"`
	Explanation string          `json:"explanation"`
}

func (q RawQuestion) answer() json.RawMessage {
	if len(q.AnswerSnake) > 0 {
		return q.AnswerSnake
	}
	return q.AnswerCamel
}

// Question is a repaired, validated quiz question. CorrectAnswer is an
// option index for choice questions and a boolean for true/false ones.
type Question struct {
	Type          string      `json:"type"`
	Question      string      `json:"question"`
	Options       []string    `json:"options,omitempty"`
	CorrectAnswer interface{} `json:"correctAnswer"`
	Explanation   string      `json:"explanation"`
}

// Stats counts what Normalize did to the input sequence.
type Stats struct {
	Repaired     int
	Reclassified int
	Discarded    int
}

// Words that mark a question as a truth judgment, used to rescue
// multiple-choice questions that arrived without options.
var truthCues = []string{"верно", "правильно", "является", "true", "false", "да", "нет"}

var affirmatives = map[string]bool{
	"true":      true,
	"верно":     true,
	"да":        true,
	"правильно": true,
	"1":         true,
}

var trueFalseOptions = []string{"Верно", "Неверно"}

// Normalize repairs and validates model-produced quiz questions. Every
// returned question satisfies its type's shape constraint; questions that
// cannot be repaired are dropped. Callers should treat a result shorter
// than MinQuestions as a failed generation.
func Normalize(raw []RawQuestion) ([]Question, Stats) {
	var out []Question
	var stats Stats

	for _, q := range raw {
		switch q.Type {
		case TypeMultipleChoice:
			if len(q.Options) < 2 {
				if hasTruthCue(q.Question) && len(q.answer()) > 0 {
					out = append(out, Question{
						Type:          TypeTrueFalse,
						Question:      q.Question,
						Options:       trueFalseOptions,
						CorrectAnswer: coerceBool(q.answer()),
						Explanation:   q.Explanation,
					})
					stats.Reclassified++
				} else {
					stats.Discarded++
				}
				continue
			}

			idx, repaired := resolveIndex(q.answer(), q.Options)
			if repaired {
				stats.Repaired++
			}
			out = append(out, Question{
				Type:          TypeMultipleChoice,
				Question:      q.Question,
				Options:       q.Options,
				CorrectAnswer: idx,
				Explanation:   q.Explanation,
			})

		case TypeTrueFalse:
			opts := q.Options
			if len(opts) != 2 {
				opts = trueFalseOptions
			}
			out = append(out, Question{
				Type:          TypeTrueFalse,
				Question:      q.Question,
				Options:       opts,
				CorrectAnswer: coerceBool(q.answer()),
				Explanation:   q.Explanation,
			})

		case TypeMatching, TypeFillInBlank:
			var ans interface{}
			if raw := q.answer(); len(raw) > 0 {
				json.Unmarshal(raw, &ans)
			}
			out = append(out, Question{
				Type:          q.Type,
				Question:      q.Question,
				Options:       q.Options,
				CorrectAnswer: ans,
				Explanation:   q.Explanation,
			})

		default:
			stats.Discarded++
		}
	}

	return out, stats
}

func hasTruthCue(question string) bool {
	lower := strings.ToLower(question)
	for _, cue := range truthCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// resolveIndex turns whatever the model put into the correct-answer field
// into a valid index into options. Option text is matched back to its
// position; everything unresolvable falls back to 0.
func resolveIndex(raw json.RawMessage, options []string) (idx int, repaired bool) {
	var v interface{}
	if len(raw) > 0 {
		json.Unmarshal(raw, &v)
	}

	switch ans := v.(type) {
	case float64:
		n := int(ans)
		if float64(n) == ans && n >= 0 && n < len(options) {
			return n, false
		}
		return 0, true
	case string:
		for i, opt := range options {
			if opt == ans {
				return i, true
			}
		}
		return 0, true
	default:
		return 0, true
	}
}

// coerceBool maps a raw correct-answer value to a boolean. Integers follow
// the rule 1 means true, anything else false; strings are matched against a
// small affirmative-word set case-insensitively.
func coerceBool(raw json.RawMessage) bool {
	var v interface{}
	if len(raw) > 0 {
		json.Unmarshal(raw, &v)
	}

	switch ans := v.(type) {
	case bool:
		return ans
	case float64:
		return ans == 1
	case string:
		return affirmatives[strings.ToLower(strings.TrimSpace(ans))]
	default:
		return false
	}
}
