package evaluator

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Review is the structured result parsed from the model's response.
type Review struct {
	Summary   string
	Score     *int
	Issues    string
	FollowUps []string
}

type parseState int

const (
	stateNone parseState = iota
	stateSummary
	stateFollowUps
)

// parseReview extracts the structured review from the model's line-oriented
// response. Header lines are matched by case-insensitive prefix; a repeated
// Summary header restarts the summary; follow-up collection accepts only
// bullet lines and closes on the first line without one. A score that is not
// an integer is recorded as absent.
func parseReview(log *zap.Logger, text string) Review {
	review := Review{Issues: "None"}

	state := stateNone
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "summary:"):
			review.Summary = strings.TrimSpace(line[len("summary:"):])
			state = stateSummary
		case strings.HasPrefix(lower, "score:"):
			content := strings.TrimSpace(line[len("score:"):])
			if score, err := strconv.Atoi(content); err == nil {
				review.Score = &score
			} else {
				log.Warn("model returned a non-integer score", zap.String("score", content))
			}
			state = stateNone
		case strings.HasPrefix(lower, "issues:"):
			review.Issues = strings.TrimSpace(line[len("issues:"):])
			state = stateNone
		case strings.HasPrefix(lower, "follow-ups:"):
			state = stateFollowUps
		case state == stateSummary:
			review.Summary += " " + line
		case state == stateFollowUps:
			if strings.HasPrefix(line, "•") {
				review.FollowUps = append(review.FollowUps, line)
			} else {
				state = stateNone
			}
		}
	}

	return review
}
