package server

import (
	"encoding/json"
	"io"
	"net/http"

	"studentkeep/core/lifecycle"
	"studentkeep/core/validation"
)

// Handlers for the lifecycle operations. Each decodes a flat JSON body,
// validates the asset key, and forwards to the ledger with the caller the
// middleware resolved.

type registerRequest struct {
	AssetID     string `json:"assetId"`
	Serial      string `json:"serial"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	DonorID     string `json:"donorId"`
	MetadataRef string `json:"metadataRef"`
}

func (s *Server) RegisterDonationHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateAssetID(req.AssetID); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	a, err := s.ledger.RegisterDonation(callerFrom(r), req.AssetID, req.Serial, req.Make, req.Model, req.DonorID, req.MetadataRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

type intakeRequest struct {
	AssetID     string `json:"assetId"`
	EvidenceRef string `json:"evidenceRef"`
	Location    string `json:"location"`
}

func (s *Server) IntakeHandler(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.ledger.Intake(callerFrom(r), req.AssetID, req.EvidenceRef, req.Location)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

type interventionRequest struct {
	AssetID      string `json:"assetId"`
	EventType    string `json:"eventType"`
	TechnicianID string `json:"technicianId"`
	ReportRef    string `json:"reportRef"`
	Location     string `json:"location"`
}

func (s *Server) RecordInterventionHandler(w http.ResponseWriter, r *http.Request) {
	var req interventionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.ledger.RecordIntervention(callerFrom(r), req.AssetID, lifecycle.EventType(req.EventType), req.TechnicianID, req.ReportRef, req.Location)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

type transferRequest struct {
	AssetID       string `json:"assetId"`
	InstitutionID string `json:"institutionId"`
	ProofRef      string `json:"proofRef"`
}

func (s *Server) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.ledger.TransferToInstitution(callerFrom(r), req.AssetID, req.InstitutionID, req.ProofRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

type assignRequest struct {
	AssetID       string `json:"assetId"`
	BeneficiaryID string `json:"beneficiaryId"`
	ProofRef      string `json:"proofRef"`
}

func (s *Server) AssignHandler(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.ledger.AssignToBeneficiary(callerFrom(r), req.AssetID, req.BeneficiaryID, req.ProofRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

func (s *Server) InitLedgerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	created, err := s.ledger.InitLedger(callerFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]int{"created": created})
}

type invokeRequest struct {
	Operation string            `json:"operation"`
	Args      map[string]string `json:"args"`
}

// InvokeHandler is the generic entry point: one named operation per call,
// dispatched through the registry. The body is schema-validated first.
func (s *Server) InvokeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeBadRequest(w, "unreadable body")
		return
	}
	if err := validation.ValidateInvokePayload(body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req invokeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeBadRequest(w, "Invalid JSON: "+err.Error())
		return
	}
	result, err := s.registry.Dispatch(s.ledger, callerFrom(r), req.Operation, req.Args)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}
