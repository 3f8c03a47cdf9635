package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseRefinementPlan parses the planner's structured response tolerantly:
// surrounding code fences are stripped, the first JSON object is extracted
// from any leading or trailing prose, subqueries are capped at three and
// confidence is clamped into [0,1]. A response with no JSON object at all is
// an error; the caller decides the fallback.
func ParseRefinementPlan(raw string) (RefinementPlan, error) {
	cleaned := stripCodeFences(strings.TrimSpace(raw))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return RefinementPlan{}, fmt.Errorf("no JSON object in planner response")
	}

	var plan RefinementPlan
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &plan); err != nil {
		return RefinementPlan{}, fmt.Errorf("failed to parse planner response: %w", err)
	}

	if len(plan.Subqueries) > maxSubqueries {
		plan.Subqueries = plan.Subqueries[:maxSubqueries]
	}
	if plan.Confidence < 0 {
		plan.Confidence = 0
	}
	if plan.Confidence > 1 {
		plan.Confidence = 1
	}
	return plan, nil
}

// stripCodeFences removes a surrounding ``` block, tolerating an optional
// language tag after the opening fence.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// drop the language tag line ("json", "JSON", ...)
		firstLine := strings.TrimSpace(s[:i])
		if firstLine == "" || strings.EqualFold(firstLine, "json") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
