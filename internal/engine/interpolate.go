// internal/engine/interpolate.go
package engine

import (
	"strings"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// Interpolate substitutes {placeholder} tokens in a message template.
// CRM fields are always available; firstName/lastName/company/position
// only when a scraped profile was fetched. Unrecognized placeholders
// stay verbatim; missing source fields become empty strings.
func Interpolate(template string, profile *model.CRMProfile, scraped *model.ScrapedProfile) string {
	result := template

	if profile != nil {
		result = strings.ReplaceAll(result, "{fullName}", profile.Name)
		result = strings.ReplaceAll(result, "{headline}", profile.Headline)
		result = strings.ReplaceAll(result, "{location}", profile.Location)
	} else {
		result = strings.ReplaceAll(result, "{fullName}", "")
		result = strings.ReplaceAll(result, "{headline}", "")
		result = strings.ReplaceAll(result, "{location}", "")
	}

	if scraped != nil {
		var company, position string
		if len(scraped.Positions) > 0 {
			company = scraped.Positions[0].Company
			position = scraped.Positions[0].Title
		}
		result = strings.ReplaceAll(result, "{firstName}", scraped.FirstName)
		result = strings.ReplaceAll(result, "{lastName}", scraped.LastName)
		result = strings.ReplaceAll(result, "{company}", company)
		result = strings.ReplaceAll(result, "{position}", position)
	}

	return result
}
