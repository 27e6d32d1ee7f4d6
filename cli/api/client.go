package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to one StudentKeep node. Token or APIKey must be set for
// anything other than the health probes.
type Client struct {
	BaseURL string
	Token   string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, token, apiKey string) *Client {
	return &Client{BaseURL: baseURL, Token: token, APIKey: apiKey, HTTP: http.DefaultClient}
}

type apiError struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

func (c *Client) do(method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var e apiError
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			if e.Kind != "" {
				return fmt.Errorf("%s (%s)", e.Error, e.Kind)
			}
			return fmt.Errorf("%s", e.Error)
		}
		return fmt.Errorf("node returned %s: %s", resp.Status, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Asset mirrors the node's wire shape for one equipment record.
type Asset struct {
	ID          string  `json:"id"`
	SerialHash  string  `json:"serialHash"`
	DonorIDHash string  `json:"donorIdHash"`
	OwnerIDHash string  `json:"ownerIdHash"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Status      string  `json:"status"`
	OwnerType   string  `json:"ownerType"`
	Location    string  `json:"location"`
	Events      []Event `json:"events"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type Event struct {
	EventType   string `json:"eventType"`
	ActorRole   string `json:"actorRole"`
	ActorIDRef  string `json:"actorIdRef"`
	EvidenceRef string `json:"evidenceRef"`
	Location    string `json:"location"`
	Timestamp   string `json:"timestamp"`
}

func (a Asset) ToJSON() string {
	b, _ := json.MarshalIndent(a, "", "  ")
	return string(b)
}

func (c *Client) RegisterDonation(assetID, serial, mk, model, donorID, metadataRef string) (Asset, error) {
	var a Asset
	err := c.do(http.MethodPost, "/api/v1/assets/register", map[string]string{
		"assetId": assetID, "serial": serial, "make": mk, "model": model,
		"donorId": donorID, "metadataRef": metadataRef,
	}, &a)
	return a, err
}

func (c *Client) Intake(assetID, evidenceRef, location string) (Asset, error) {
	var a Asset
	err := c.do(http.MethodPost, "/api/v1/assets/intake", map[string]string{
		"assetId": assetID, "evidenceRef": evidenceRef, "location": location,
	}, &a)
	return a, err
}

func (c *Client) RecordIntervention(assetID, eventType, technicianID, reportRef, location string) (Asset, error) {
	var a Asset
	err := c.do(http.MethodPost, "/api/v1/assets/intervention", map[string]string{
		"assetId": assetID, "eventType": eventType, "technicianId": technicianID,
		"reportRef": reportRef, "location": location,
	}, &a)
	return a, err
}

func (c *Client) Transfer(assetID, institutionID, proofRef string) (Asset, error) {
	var a Asset
	err := c.do(http.MethodPost, "/api/v1/assets/transfer", map[string]string{
		"assetId": assetID, "institutionId": institutionID, "proofRef": proofRef,
	}, &a)
	return a, err
}

func (c *Client) Assign(assetID, beneficiaryID, proofRef string) (Asset, error) {
	var a Asset
	err := c.do(http.MethodPost, "/api/v1/assets/assign", map[string]string{
		"assetId": assetID, "beneficiaryId": beneficiaryID, "proofRef": proofRef,
	}, &a)
	return a, err
}

func (c *Client) GetAsset(assetID string) (Asset, error) {
	var a Asset
	err := c.do(http.MethodGet, "/api/v1/asset?assetId="+assetID, nil, &a)
	return a, err
}

func (c *Client) QueryByStatus(status string) ([]Asset, error) {
	var out []Asset
	err := c.do(http.MethodGet, "/api/v1/assets/by-status?status="+status, nil, &out)
	return out, err
}

// KeyedAsset is one row of a key-range scan.
type KeyedAsset struct {
	Key   string `json:"key"`
	Asset Asset  `json:"record"`
}

func (c *Client) QueryByKeyRange(start, end string) ([]KeyedAsset, error) {
	var out []KeyedAsset
	err := c.do(http.MethodGet, "/api/v1/assets/range?start="+start+"&end="+end, nil, &out)
	return out, err
}

// HistoryEntry is one committed version of an asset.
type HistoryEntry struct {
	TxRef     string          `json:"txId"`
	Timestamp string          `json:"timestamp"`
	IsDelete  bool            `json:"isDelete"`
	Value     json.RawMessage `json:"value"`
}

func (c *Client) GetHistory(assetID string) ([]HistoryEntry, error) {
	var out []HistoryEntry
	err := c.do(http.MethodGet, "/api/v1/history?assetId="+assetID, nil, &out)
	return out, err
}

// Status mirrors the node's /status payload.
type Status struct {
	Status     string `json:"status"`
	Uptime     int64  `json:"uptime_seconds"`
	AssetCount int    `json:"asset_count"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	Metrics    struct {
		CPULoadPercent float64 `json:"cpu_load_percent"`
		MemoryMB       float64 `json:"memory_mb"`
		StoreReachable bool    `json:"store_reachable"`
	} `json:"metrics"`
}

func (s Status) ToJSON() string {
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}

func (c *Client) GetStatus() (Status, error) {
	var s Status
	err := c.do(http.MethodGet, "/status", nil, &s)
	return s, err
}

func (c *Client) InitLedger() (map[string]int, error) {
	var out map[string]int
	err := c.do(http.MethodPost, "/api/v1/admin/init", struct{}{}, &out)
	return out, err
}

func (c *Client) Operations() ([]string, error) {
	var out struct {
		Operations []string `json:"operations"`
	}
	err := c.do(http.MethodGet, "/api/v1/operations", nil, &out)
	return out.Operations, err
}

// Emission is one notification from the node's in-memory feed.
type Emission struct {
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt string          `json:"emittedAt"`
}

func (c *Client) Notifications() ([]Emission, error) {
	var out []Emission
	err := c.do(http.MethodGet, "/api/v1/notifications", nil, &out)
	return out, err
}
