package dto

import (
	"time"

	"captioncraft/internal/domain/caption"
)

type GenerateCaptionRequest struct {
	PostType          string `json:"post_type"`
	PostPurpose       string `json:"post_purpose"`
	CustomType        string `json:"custom_type"`
	CustomPurpose     string `json:"custom_purpose"`
	AdditionalDetails string `json:"additional_details"`
}

type CaptionResponse struct {
	ID        string    `json:"id"`
	Caption   string    `json:"caption"`
	Hashtags  []string  `json:"hashtags"`
	ShareText string    `json:"share_text"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCaptionResponse(r caption.GenerationResult) CaptionResponse {
	tags := r.Hashtags
	if tags == nil {
		tags = []string{}
	}
	return CaptionResponse{
		ID:        r.ID,
		Caption:   r.Caption,
		Hashtags:  tags,
		ShareText: caption.ShareText(r),
		CreatedAt: r.CreatedAt,
	}
}

func NewCaptionResponses(items []caption.GenerationResult) []CaptionResponse {
	out := make([]CaptionResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewCaptionResponse(it))
	}
	return out
}
