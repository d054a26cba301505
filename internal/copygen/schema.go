package copygen

import "fmt"

// Field names of the model's JSON answer.
const (
	FieldMoments   = "moments"
	FieldCommunity = "xiaohongshu"
	FieldSummary   = "summary"
)

var requiredFields = [...]string{FieldMoments, FieldCommunity, FieldSummary}

// Check reports whether v is a JSON object whose three copy fields are non-empty strings.
func Check(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return false
	}
	for _, f := range requiredFields {
		s, ok := m[f].(string)
		if !ok || s == "" {
			return false
		}
	}
	return true
}

// Decode converts a checked candidate into a CopyResult.
func Decode(v any) (CopyResult, error) {
	if !Check(v) {
		return CopyResult{}, fmt.Errorf("%w: want non-empty string fields %v", ErrSchemaViolation, requiredFields)
	}
	m := v.(map[string]any)
	return CopyResult{
		Moments:   m[FieldMoments].(string),
		Community: m[FieldCommunity].(string),
		Summary:   m[FieldSummary].(string),
	}, nil
}
