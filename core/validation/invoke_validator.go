package validation

import (
	"fmt"
	"os"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// invokeSchemaV1 is the envelope every gateway invoke call must satisfy:
// an operation name plus flat string arguments. Argument plausibility
// (statuses, roles, preconditions) is the ledger's job, not the schema's.
const invokeSchemaV1 = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["operation"],
  "properties": {
    "operation": {
      "type": "string",
      "minLength": 1,
      "maxLength": 64,
      "pattern": "^[A-Za-z][A-Za-z0-9]*$"
    },
    "args": {
      "type": "object",
      "additionalProperties": {
        "type": "string",
        "maxLength": 2048
      }
    }
  },
  "additionalProperties": false
}`

func getSchemaLoader() gojsonschema.JSONLoader {
	if path := os.Getenv("INVOKE_SCHEMA_PATH"); path != "" {
		return gojsonschema.NewReferenceLoader("file://" + path)
	}
	return gojsonschema.NewStringLoader(invokeSchemaV1)
}

// ValidateInvokePayload validates a raw invoke body against the envelope
// schema before anything touches the ledger.
func ValidateInvokePayload(payload []byte) error {
	result, err := gojsonschema.Validate(getSchemaLoader(), gojsonschema.NewBytesLoader(payload))
	if err != nil {
		AuditValidationError("invoke_schema", err.Error())
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errStr := ""
		for _, e := range result.Errors() {
			errStr += e.String() + "; "
		}
		AuditValidationError("invoke_schema", errStr)
		return fmt.Errorf("payload failed schema validation: %s", errStr)
	}
	return nil
}

var assetIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateAssetID rejects keys that would collide with the store's key
// layout or blow past sane lengths.
func ValidateAssetID(id string) error {
	if !assetIDPattern.MatchString(id) {
		return fmt.Errorf("invalid asset id %q", id)
	}
	return nil
}
