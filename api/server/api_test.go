package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studentkeep/core/asset"
	"studentkeep/core/audit"
	"studentkeep/core/auth"
	"studentkeep/core/ledger"
	"studentkeep/core/lifecycle"
	"studentkeep/core/notify"
	"studentkeep/core/storage"
)

const (
	testSecret = "gateway-test-secret"
	testAPIKey = "ops-key-1"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	st := storage.NewMemory()
	feed := notify.NewFeed(32)
	l := ledger.New(ledger.Config{
		Store:       st,
		Emitter:     feed,
		AuditLogger: audit.NopAuditLogger{},
	})
	registry, err := ledger.NewRegistry()
	require.NoError(t, err)

	s := NewServer(Options{
		Ledger:      l,
		Registry:    registry,
		Store:       st,
		Feed:        feed,
		Verifier:    auth.NewVerifier(testSecret, audit.NopAuditLogger{}),
		APIKey:      testAPIKey,
		AuditLogger: audit.NopAuditLogger{},
	})
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func token(t *testing.T, subject string, role lifecycle.Role) string {
	t.Helper()
	tok, err := auth.IssueToken(testSecret, subject, role, "TestOrg", time.Hour)
	require.NoError(t, err)
	return tok
}

func doJSON(t *testing.T, method, url, bearer string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestUnauthenticatedRejected(t *testing.T) {
	_, ts := newTestServer(t)
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/register", "", map[string]string{"assetId": "A1"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterAndRead(t *testing.T) {
	_, ts := newTestServer(t)
	donorToken := token(t, "donor7", lifecycle.RoleDonor)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/register", donorToken, map[string]string{
		"assetId": "A1", "serial": "SN-1", "make": "Acme", "model": "X1", "donorId": "donor7",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var a asset.Asset
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	require.Equal(t, lifecycle.StatusDonated, a.Status)
	require.Len(t, a.Events, 1)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/asset?assetId=A1", donorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	require.Equal(t, "A1", a.ID)
}

func TestErrorKindMapping(t *testing.T) {
	_, ts := newTestServer(t)
	donorToken := token(t, "donor7", lifecycle.RoleDonor)
	techToken := token(t, "techA", lifecycle.RoleTechnician)
	ipssToken := token(t, "ipss1", lifecycle.RoleIPSS)

	register := map[string]string{"assetId": "A1", "serial": "SN-1", "make": "Acme", "model": "X1"}
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/register", donorToken, register)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// AlreadyExists -> 409
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/register", donorToken, register)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var e struct{ Kind string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	require.Equal(t, string(ledger.KindAlreadyExists), e.Kind)

	// NotFound -> 404
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/asset?assetId=missing", donorToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unauthorized role -> 403 (authenticated, but not allowed)
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/register", techToken, map[string]string{
		"assetId": "A2", "serial": "SN", "make": "M", "model": "X",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// InvalidState -> 409
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/assign", ipssToken, map[string]string{
		"assetId": "A1", "beneficiaryId": "student9",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/assign", ipssToken, map[string]string{
		"assetId": "A1", "beneficiaryId": "student10",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInvokeEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	donorToken := token(t, "donor7", lifecycle.RoleDonor)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/invoke", donorToken, map[string]interface{}{
		"operation": "RegisterDonation",
		"args": map[string]string{
			"assetId": "A1", "serial": "SN-1", "make": "Acme", "model": "X1",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Schema rejects non-string args before dispatch.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/invoke", donorToken, map[string]interface{}{
		"operation": "Intake",
		"args":      map[string]interface{}{"assetId": 42},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown operations are a 404.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/invoke", donorToken, map[string]interface{}{
		"operation": "MintGold",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIKeyGrantsAdmin(t *testing.T) {
	_, ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/admin/init", nil)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", testAPIKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out["created"])
}

func TestQueryByStatusEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	donorToken := token(t, "donor7", lifecycle.RoleDonor)
	for _, id := range []string{"A1", "A2"} {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/register", donorToken, map[string]string{
			"assetId": id, "serial": "SN-" + id, "make": "Acme", "model": "X1",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/assets/by-status?status=DONATED", donorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var assets []asset.Asset
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&assets))
	require.Len(t, assets, 2)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/assets/by-status?status=NONSENSE", donorToken, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotificationsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	donorToken := token(t, "donor7", lifecycle.RoleDonor)
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/assets/register", donorToken, map[string]string{
		"assetId": "A1", "serial": "SN-1", "make": "Acme", "model": "X1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/notifications", donorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var emissions []notify.Emission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&emissions))
	require.Len(t, emissions, 1)
	require.Equal(t, "DonationRegistered", emissions[0].Event)
}

func TestProbesUnauthenticated(t *testing.T) {
	_, ts := newTestServer(t)
	for _, path := range []string{"/health/liveness", "/health/readiness", "/status"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
