package caption

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// \w is ASCII-only, so tags stop at the first non-ASCII letter.
var hashtagRe = regexp.MustCompile(`#\w+`)

// ExtractHashtags returns the tags in order of appearance without the leading '#'.
// Duplicates are kept.
func ExtractHashtags(text string) []string {
	matches := hashtagRe.FindAllString(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.TrimPrefix(m, "#"))
	}
	return tags
}

func StripHashtags(text string) string {
	return strings.TrimSpace(hashtagRe.ReplaceAllString(text, ""))
}

// ParseGenerated turns raw model output into a result stamped with a fresh id and now.
func ParseGenerated(text string, now time.Time) GenerationResult {
	return GenerationResult{
		ID:        uuid.NewString(),
		Caption:   StripHashtags(text),
		Hashtags:  ExtractHashtags(text),
		CreatedAt: now.UTC(),
	}
}

func ShareText(r GenerationResult) string {
	if len(r.Hashtags) == 0 {
		return r.Caption
	}
	tags := make([]string, 0, len(r.Hashtags))
	for _, t := range r.Hashtags {
		tags = append(tags, "#"+t)
	}
	return r.Caption + "\n\n" + strings.Join(tags, " ")
}
