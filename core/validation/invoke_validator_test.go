package validation

import (
	"testing"
)

func TestValidateInvokePayload_Valid(t *testing.T) {
	payload := []byte(`{
  "operation": "RegisterDonation",
  "args": {"assetId": "A1", "serial": "SN-1", "make": "Acme", "model": "X1"}
}`)
	if err := ValidateInvokePayload(payload); err != nil {
		t.Errorf("Expected valid payload, got error: %v", err)
	}
}

func TestValidateInvokePayload_MissingOperation(t *testing.T) {
	payload := []byte(`{"args": {"assetId": "A1"}}`)
	if err := ValidateInvokePayload(payload); err == nil {
		t.Errorf("Expected error for missing operation, got nil")
	}
}

func TestValidateInvokePayload_NonStringArg(t *testing.T) {
	payload := []byte(`{"operation": "Intake", "args": {"assetId": 42}}`)
	if err := ValidateInvokePayload(payload); err == nil {
		t.Errorf("Expected error for non-string arg, got nil")
	}
}

func TestValidateInvokePayload_UnknownTopLevelField(t *testing.T) {
	payload := []byte(`{"operation": "Intake", "caller": "spoofed"}`)
	if err := ValidateInvokePayload(payload); err == nil {
		t.Errorf("Expected error for unknown top-level field, got nil")
	}
}

func TestValidateInvokePayload_InvalidJSON(t *testing.T) {
	if err := ValidateInvokePayload([]byte("{not json")); err == nil {
		t.Errorf("Expected error for invalid JSON, got nil")
	}
}

func TestValidateAssetID(t *testing.T) {
	for _, id := range []string{"A1", "asset-2026.01", "X_9"} {
		if err := ValidateAssetID(id); err != nil {
			t.Errorf("Expected %q to be valid: %v", id, err)
		}
	}
	for _, id := range []string{"", "-leading", "has space", "a:b", string(make([]byte, 80))} {
		if err := ValidateAssetID(id); err == nil {
			t.Errorf("Expected %q to be rejected", id)
		}
	}
}
