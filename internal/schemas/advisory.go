package schemas

import (
	_ "embed"
)

// AdvisoryResponseSchema is the contract a text advisory response must satisfy
//
//go:embed advisory_response.schema.json
var AdvisoryResponseSchema string

// ValidateAdvisoryResponse validates a raw advisory response body
func ValidateAdvisoryResponse(jsonContent string) error {
	return ValidateJSONString(AdvisoryResponseSchema, jsonContent)
}
