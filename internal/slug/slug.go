// Package slug derives unique, URL-safe identifiers from takeaway display
// names. Slugs appear in shareable links, so they must never be empty and no
// two takeaways may ever share one.
package slug

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
)

const maxLength = 60

// fallback is returned when slugification leaves nothing usable
const fallback = "takeaway"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases and trims the input, replaces "&" with "and", collapses
// runs of non-alphanumeric characters to single hyphens, strips leading and
// trailing hyphens and truncates to 60 characters. The result is never empty.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, "&", "and")
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLength {
		s = strings.TrimRight(s[:maxLength], "-")
	}
	if s == "" {
		return fallback
	}
	return s
}

// EnsureUnique resolves the desired name to a slug that no other takeaway
// holds. The takeaway identified by excludeID keeps its claim on its own
// current slug, so renaming a takeaway to its current name is a no-op. On
// collision the lowest free numeric suffix (-2, -3, ...) is appended, which
// makes the result deterministic for a given set of existing slugs.
func EnsureUnique(desired, excludeID string, takeaways []models.Takeaway) string {
	base := Slugify(desired)
	used := make(map[string]struct{}, len(takeaways))
	for _, t := range takeaways {
		if t.ID == excludeID {
			continue
		}
		used[t.Slug] = struct{}{}
	}
	if _, taken := used[base]; !taken {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}
