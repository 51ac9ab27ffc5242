package llm

import (
	"fmt"
	"strings"

	"captioncraft/internal/domain/caption"
)

const SystemInstruction = "You are an expert social media caption writer for small businesses. " +
	"You write simple, direct copy that is vulnerable and authentic but still professional, " +
	"and that drives engagement."

// BuildPrompt embeds the business context, the resolved post type and purpose, and the fixed style rules.
func BuildPrompt(req caption.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a social media caption for a %s business that is vulnerable, conversational, and emotionally engaging.\n\n", req.BusinessType)
	fmt.Fprintf(&b, "The caption should be %s in nature and designed for %s.\n\n", req.ResolvedPostType(), req.ResolvedPostPurpose())

	b.WriteString("Business details:\n")
	fmt.Fprintf(&b, "- Business type: %s\n", req.BusinessType)
	fmt.Fprintf(&b, "- Business description: %s\n", req.BusinessDescription)
	if extra := strings.TrimSpace(req.AdditionalDetails); extra != "" {
		fmt.Fprintf(&b, "- Additional context: %s\n", extra)
	}

	b.WriteString("\nStyle guidelines:\n")
	for _, rule := range styleRules {
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	b.WriteString("\nUse the actual business information provided - no placeholders.")

	return b.String()
}

var styleRules = []string{
	"Keep it short and written in a simple, direct voice",
	"Keep it conversational but not too informal",
	"Make it vulnerable and authentic",
	"Use minimal emojis (max 1-2 if needed)",
	"Put one idea per line for easy reading",
	"End with a clear call-to-action",
	"Include 5-7 relevant trending hashtags",
}
