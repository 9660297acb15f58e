// Package plan extracts the structured practice plan an assistant reply may
// embed as a fenced ```plan-json block.
package plan

import (
	"encoding/json"
	"regexp"
	"strings"

	"zenflow/internal/api"
)

var fenceRe = regexp.MustCompile("(?s)```plan-json\n(.*?)```")

// Extract scans content for a plan-json fence and parses its body as an
// ordered list of plan items. On success the fence is removed from clean.
// When there is no fence, or its body is not valid JSON, ok is false and
// clean is the raw content unmodified; the still-embedded fence is shown
// as-is rather than half-stripped.
func Extract(content string) (items []api.PlanItem, clean string, ok bool) {
	match := fenceRe.FindStringSubmatch(content)
	if match == nil {
		return nil, content, false
	}
	if err := json.Unmarshal([]byte(match[1]), &items); err != nil {
		return nil, content, false
	}
	clean = strings.Replace(content, match[0], "", 1)
	return items, clean, true
}
