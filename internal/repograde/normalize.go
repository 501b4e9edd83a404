package repograde

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const noExplanation = "No explanation provided."

var scorePattern = regexp.MustCompile(`(?i)score["']?\s*[:=]\s*(\d+)`)

// reply mirrors the JSON shape the model is asked to produce. Every field
// is optional and every scalar tolerates the type drift models exhibit.
type reply struct {
	Score       flexInt       `json:"score"`
	Explanation flexString    `json:"explanation"`
	Table       []tableRow    `json:"evaluation_table"`
	Summary     *replySummary `json:"summary"`
	Strengths   []flexString  `json:"strengths"`
	Weaknesses  []flexString  `json:"weaknesses"`
	Missing     []flexString  `json:"missing_features"`
}

type tableRow struct {
	Requirement    flexString `json:"requirement"`
	Expected       flexString `json:"expected"`
	Actual         flexString `json:"actual"`
	PointsAwarded  flexInt    `json:"points_awarded"`
	PointsPossible flexInt    `json:"points_possible"`
	Justification  flexString `json:"justification"`
}

// UnmarshalJSON handles rows sent as bare strings instead of objects.
func (tr *tableRow) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		tr.Requirement = flexString(s)
		return nil
	}

	type Alias tableRow
	var a Alias
	if err := json.Unmarshal(data, &a); err == nil {
		*tr = tableRow(a)
	}
	return nil
}

type replySummary struct {
	TotalAwarded  flexInt `json:"total_points_awarded"`
	TotalPossible flexInt `json:"total_points_possible"`
	FullyMet      flexInt `json:"requirements_fully_met"`
	PartiallyMet  flexInt `json:"requirements_partially_met"`
	NotMet        flexInt `json:"requirements_not_met"`
}

// flexInt accepts numbers and numeric strings; anything else leaves zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(int(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = flexInt(int(v))
		}
	}
	return nil
}

// flexString accepts strings; other values keep their compact JSON text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	if string(data) == "null" {
		return nil
	}
	*f = flexString(strings.TrimSpace(string(data)))
	return nil
}

// NormalizeReply turns the raw model reply into an EvaluationResult. It
// never fails: a well-formed reply is rendered fully, anything else goes
// through the score-pattern fallback. Every path yields a score in
// [0,100] and a non-empty explanation.
func NormalizeReply(raw string) EvaluationResult {
	text := strings.TrimSpace(raw)

	var r reply
	if err := json.Unmarshal([]byte(stripFence(text)), &r); err == nil {
		return renderResult(r)
	}

	return fallbackResult(text)
}

// stripFence removes the first and last line of a fenced block. Best
// effort: anything under three lines is left alone.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) <= 2 {
		return text
	}

	return strings.Join(lines[1:len(lines)-1], "\n")
}

func renderResult(r reply) EvaluationResult {
	var b strings.Builder

	expl := string(r.Explanation)
	if expl == "" {
		expl = noExplanation
	}
	b.WriteString(expl)

	if len(r.Table) > 0 {
		b.WriteString("\n\nEvaluation table:\n")
		b.WriteString("\n| Requirement | Expected | Actual Work Done | Points Awarded | Justification |")
		b.WriteString("\n|---|---|---|---|---|")
		for _, row := range r.Table {
			points := strconv.Itoa(int(row.PointsAwarded))
			if row.PointsPossible > 0 {
				points = fmt.Sprintf("%d/%d", row.PointsAwarded, row.PointsPossible)
			}
			fmt.Fprintf(&b, "\n| %s | %s | %s | %s | %s |",
				escapeCell(row.Requirement),
				escapeCell(row.Expected),
				escapeCell(row.Actual),
				points,
				escapeCell(row.Justification),
			)
		}
	}

	if r.Summary != nil && *r.Summary != (replySummary{}) {
		b.WriteString("\n\nSummary:")
		fmt.Fprintf(&b, "\n- Total points awarded: %d", r.Summary.TotalAwarded)
		fmt.Fprintf(&b, "\n- Total points possible: %d", r.Summary.TotalPossible)
		fmt.Fprintf(&b, "\n- Requirements fully met: %d", r.Summary.FullyMet)
		fmt.Fprintf(&b, "\n- Requirements partially met: %d", r.Summary.PartiallyMet)
		fmt.Fprintf(&b, "\n- Requirements not met: %d", r.Summary.NotMet)
	}

	writeSection(&b, "Strengths:", r.Strengths)
	writeSection(&b, "Weaknesses:", r.Weaknesses)
	writeSection(&b, "Missing features:", r.Missing)

	return EvaluationResult{
		Score:       clamp(int(r.Score), 0, 100),
		Explanation: b.String(),
	}
}

func writeSection(b *strings.Builder, heading string, items []flexString) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n\n" + heading)
	for _, item := range items {
		b.WriteString("\n- " + string(item))
	}
}

func escapeCell(s flexString) string {
	cell := string(s)
	if cell == "" {
		cell = "N/A"
	}

	return strings.ReplaceAll(cell, "|", `\|`)
}

// fallbackResult is the terminal safety net for malformed replies: pull a
// score out of the text if one is visible, keep the reply verbatim as the
// explanation.
func fallbackResult(text string) EvaluationResult {
	score := 50
	if m := scorePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			score = v
		}
	}

	expl := text
	if expl == "" {
		expl = noExplanation
	}

	return EvaluationResult{
		Score:       clamp(score, 0, 100),
		Explanation: expl,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
