package caption

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"order kept", "Hello #bakery and #sourdough #local", []string{"bakery", "sourdough", "local"}},
		{"duplicates kept", "#bread is #bread", []string{"bread", "bread"}},
		{"none", "no tags here", []string{}},
		{"stops at punctuation", "#fresh! #hot-cross", []string{"fresh", "hot"}},
		{"underscores and digits", "#small_biz #2026", []string{"small_biz", "2026"}},
		{"bare hash ignored", "# alone", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractHashtags(tc.in))
		})
	}
}

func TestParseGenerated(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	res := ParseGenerated("Fresh bread, made with love. Order today! #bakery #sourdough #local", now)

	assert.Equal(t, "Fresh bread, made with love. Order today!", res.Caption)
	assert.Equal(t, []string{"bakery", "sourdough", "local"}, res.Hashtags)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, time.UTC, res.CreatedAt.Location())
	assert.True(t, res.CreatedAt.Equal(now))

	other := ParseGenerated("x", now)
	assert.NotEqual(t, res.ID, other.ID)
}

func TestParseGenerated_OnlyTags(t *testing.T) {
	res := ParseGenerated("#one #two", time.Now())
	assert.Equal(t, "", res.Caption)
	assert.Equal(t, []string{"one", "two"}, res.Hashtags)
}

func TestShareText(t *testing.T) {
	r := GenerationResult{Caption: "Fresh bread.", Hashtags: []string{"bakery", "local"}}
	assert.Equal(t, "Fresh bread.\n\n#bakery #local", ShareText(r))

	assert.Equal(t, "Plain.", ShareText(GenerationResult{Caption: "Plain."}))
}

func TestGenerationRequest_Resolved(t *testing.T) {
	req := GenerationRequest{
		PostType:      PostTypeCustom,
		CustomType:    "Behind the scenes",
		PostPurpose:   PostPurposeCustom,
		CustomPurpose: "  ",
	}
	assert.Equal(t, "Behind the scenes", req.ResolvedPostType())
	assert.Equal(t, "custom", req.ResolvedPostPurpose())

	req = GenerationRequest{PostType: PostTypeEducational, CustomType: "ignored", PostPurpose: PostPurposeCommunity}
	assert.Equal(t, "educational", req.ResolvedPostType())
	assert.Equal(t, "community", req.ResolvedPostPurpose())
}

func TestPostTypeValid(t *testing.T) {
	assert.True(t, PostTypeConversational.Valid())
	assert.False(t, PostType("viral").Valid())
	assert.True(t, PostPurposeStorytelling.Valid())
	assert.False(t, PostPurpose("").Valid())
}
