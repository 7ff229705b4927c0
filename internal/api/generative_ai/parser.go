package generativeAI

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedResponse covers model output that is not JSON, or is JSON of
// the wrong shape.
var ErrMalformedResponse = errors.New("malformed model response")

// MustSchema compiles a JSON schema at package init time.
func MustSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON schema: %v", err))
	}
	return s
}

// CleanJSONResponse strips markdown fences and any prose around the outermost
// JSON object.
func CleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}

// ParseJSON cleans raw, validates it against schema and decodes it into dst.
// Every failure wraps ErrMalformedResponse.
func ParseJSON[T any](raw string, schema *gojsonschema.Schema, dst *T) error {
	cleaned := CleanJSONResponse(raw)
	if cleaned == "" {
		return fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	if schema != nil {
		result, err := schema.Validate(gojsonschema.NewStringLoader(cleaned))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if !result.Valid() {
			errs := make([]string, len(result.Errors()))
			for i, desc := range result.Errors() {
				errs[i] = desc.String()
			}
			return fmt.Errorf("%w: schema validation failed: %s", ErrMalformedResponse, strings.Join(errs, "; "))
		}
	}

	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
