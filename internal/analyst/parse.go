package analyst

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/seenimoa/marketbrief/pkg/models"
)

var validate = validator.New()

// ErrEmptyResult is returned when the reply decodes to null or to an object
// with no populated fields.
var ErrEmptyResult = errors.New("analyst: response carries no analysis")

// ParseResponse decodes a model reply into an AnalysisResult. A leading
// markdown code fence (with or without a json tag) is removed first.
func ParseResponse(text string) (*models.AnalysisResult, error) {
	body := StripFence(text)
	if body == "" {
		return nil, errors.New("analyst: empty response")
	}
	var result *models.AnalysisResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("analyst: decode response: %w", err)
	}
	if result == nil || isEmpty(result) {
		return nil, ErrEmptyResult
	}
	return result, nil
}

func isEmpty(r *models.AnalysisResult) bool {
	return r.MarketOverview == "" &&
		len(r.NewsHighlights) == 0 &&
		r.PortfolioHealth.Summary == "" &&
		len(r.PortfolioHealth.Alerts) == 0 &&
		len(r.StockAnalysis) == 0 &&
		len(r.Recommendations) == 0 &&
		len(r.ActionItems) == 0
}

// StripFence trims text and unwraps a leading ```json or ``` fence up to the
// next closing fence.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	for _, open := range []string{"```json", "```"} {
		if rest, ok := strings.CutPrefix(text, open); ok {
			body, _, _ := strings.Cut(rest, "```")
			return strings.TrimSpace(body)
		}
	}
	return text
}

// Validate checks enumerations and the recommendation count, returning one
// message per violation. A nil result has none.
func Validate(result *models.AnalysisResult) []string {
	if result == nil {
		return nil
	}
	err := validate.Struct(result)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return out
}
