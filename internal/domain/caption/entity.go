package caption

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrGenerationFailed = errors.New("caption generation failed")

type PostType string

const (
	PostTypePromotional    PostType = "promotional"
	PostTypeInspirational  PostType = "inspirational"
	PostTypeEducational    PostType = "educational"
	PostTypeConversational PostType = "conversational"
	PostTypeCustom         PostType = "custom"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypePromotional, PostTypeInspirational, PostTypeEducational, PostTypeConversational, PostTypeCustom:
		return true
	default:
		return false
	}
}

type PostPurpose string

const (
	PostPurposeAttention    PostPurpose = "attention"
	PostPurposeSales        PostPurpose = "sales"
	PostPurposeCommunity    PostPurpose = "community"
	PostPurposeStorytelling PostPurpose = "storytelling"
	PostPurposeCustom       PostPurpose = "custom"
)

func (p PostPurpose) Valid() bool {
	switch p {
	case PostPurposeAttention, PostPurposeSales, PostPurposeCommunity, PostPurposeStorytelling, PostPurposeCustom:
		return true
	default:
		return false
	}
}

// GenerationRequest is built per call and never persisted.
type GenerationRequest struct {
	PostType            PostType
	PostPurpose         PostPurpose
	CustomType          string
	CustomPurpose       string
	BusinessType        string
	BusinessDescription string
	AdditionalDetails   string
}

// ResolvedPostType returns the custom label when the selection is custom and a label was given.
func (r GenerationRequest) ResolvedPostType() string {
	if r.PostType == PostTypeCustom && strings.TrimSpace(r.CustomType) != "" {
		return r.CustomType
	}
	return string(r.PostType)
}

func (r GenerationRequest) ResolvedPostPurpose() string {
	if r.PostPurpose == PostPurposeCustom && strings.TrimSpace(r.CustomPurpose) != "" {
		return r.CustomPurpose
	}
	return string(r.PostPurpose)
}

type GenerationResult struct {
	ID        string    `json:"id"`
	Caption   string    `json:"caption"`
	Hashtags  []string  `json:"hashtags"`
	CreatedAt time.Time `json:"createdAt"`
}

type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}
