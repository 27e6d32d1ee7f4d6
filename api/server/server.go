package server

import (
	"log"
	"net/http"
	"time"

	"studentkeep/core/audit"
	"studentkeep/core/auth"
	"studentkeep/core/ledger"
	"studentkeep/core/notify"
	"studentkeep/core/storage"
)

// Server is the HTTP gateway in front of the ledger. It authenticates the
// caller, maps the request into a ledger invocation, and serializes the
// result or the ledger's error kind back out. All retry policy lives with
// the caller; the gateway never re-submits a failed write.
type Server struct {
	ListenAddr string

	ledger   *ledger.Ledger
	registry *ledger.Registry
	store    storage.StateStore
	feed     *notify.Feed
	verifier *auth.Verifier
	apiKey   string
	auditor  audit.AuditLogger

	startTime time.Time
}

// Options wires the gateway's collaborators.
type Options struct {
	ListenAddr  string
	Ledger      *ledger.Ledger
	Registry    *ledger.Registry
	Store       storage.StateStore
	Feed        *notify.Feed
	Verifier    *auth.Verifier
	APIKey      string
	AuditLogger audit.AuditLogger
}

func NewServer(opts Options) *Server {
	s := &Server{
		ListenAddr: opts.ListenAddr,
		ledger:     opts.Ledger,
		registry:   opts.Registry,
		store:      opts.Store,
		feed:       opts.Feed,
		verifier:   opts.Verifier,
		apiKey:     opts.APIKey,
		auditor:    opts.AuditLogger,
		startTime:  time.Now(),
	}
	if s.auditor == nil {
		s.auditor = audit.NewStdoutAuditLogger()
	}
	return s
}

// Routes builds the gateway mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Lifecycle operations.
	mux.Handle("/api/v1/assets/register", s.authMiddleware(http.HandlerFunc(s.RegisterDonationHandler)))
	mux.Handle("/api/v1/assets/intake", s.authMiddleware(http.HandlerFunc(s.IntakeHandler)))
	mux.Handle("/api/v1/assets/intervention", s.authMiddleware(http.HandlerFunc(s.RecordInterventionHandler)))
	mux.Handle("/api/v1/assets/transfer", s.authMiddleware(http.HandlerFunc(s.TransferHandler)))
	mux.Handle("/api/v1/assets/assign", s.authMiddleware(http.HandlerFunc(s.AssignHandler)))
	mux.Handle("/api/v1/admin/init", s.authMiddleware(http.HandlerFunc(s.InitLedgerHandler)))
	mux.Handle("/api/v1/invoke", s.authMiddleware(http.HandlerFunc(s.InvokeHandler)))

	// Queries.
	mux.Handle("/api/v1/asset", s.authMiddleware(http.HandlerFunc(s.ReadCurrentHandler)))
	mux.Handle("/api/v1/assets/by-status", s.authMiddleware(http.HandlerFunc(s.QueryByStatusHandler)))
	mux.Handle("/api/v1/assets/range", s.authMiddleware(http.HandlerFunc(s.QueryByKeyRangeHandler)))
	mux.Handle("/api/v1/history", s.authMiddleware(http.HandlerFunc(s.GetHistoryHandler)))
	mux.Handle("/api/v1/notifications", s.authMiddleware(http.HandlerFunc(s.NotificationsHandler)))
	mux.Handle("/api/v1/operations", s.authMiddleware(http.HandlerFunc(s.OperationsHandler)))

	// Probes, unauthenticated.
	mux.HandleFunc("/health/liveness", s.HandleLiveness)
	mux.HandleFunc("/health/readiness", s.HandleReadiness)
	mux.HandleFunc("/status", s.HandleStatus)

	return mux
}

func (s *Server) Start() error {
	log.Printf("StudentKeep gateway listening on %s", s.ListenAddr)
	return http.ListenAndServe(s.ListenAddr, s.Routes())
}
