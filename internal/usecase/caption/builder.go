package caption

import (
	"captioncraft/internal/domain/caption"
	"captioncraft/internal/domain/profile"
)

// GenerationForm is what the user picks on the generation screen.
type GenerationForm struct {
	PostType          caption.PostType
	PostPurpose       caption.PostPurpose
	CustomType        string
	CustomPurpose     string
	AdditionalDetails string
}

// BuildRequest merges the form with the profile's business fields. Values pass through unvalidated.
func BuildRequest(form GenerationForm, p profile.Profile) caption.GenerationRequest {
	return caption.GenerationRequest{
		PostType:            form.PostType,
		PostPurpose:         form.PostPurpose,
		CustomType:          form.CustomType,
		CustomPurpose:       form.CustomPurpose,
		BusinessType:        p.BusinessType,
		BusinessDescription: p.BusinessDescription,
		AdditionalDetails:   form.AdditionalDetails,
	}
}
