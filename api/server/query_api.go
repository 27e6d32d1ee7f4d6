package server

import (
	"net/http"

	"studentkeep/core/ledger"
	"studentkeep/core/lifecycle"
	"studentkeep/core/notify"
)

func (s *Server) ReadCurrentHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("assetId")
	if id == "" {
		writeBadRequest(w, "Missing assetId parameter")
		return
	}
	a, err := s.ledger.ReadCurrent(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

func (s *Server) QueryByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := lifecycle.Status(r.URL.Query().Get("status"))
	if !status.Valid() {
		writeBadRequest(w, "Missing or unknown status parameter")
		return
	}
	iter, err := s.ledger.QueryByStatus(status)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := iter.Drain()
	if err != nil {
		writeError(w, err)
		return
	}
	assets := make([]interface{}, 0, len(results))
	for _, kv := range results {
		assets = append(assets, kv.Asset)
	}
	writeJSON(w, assets)
}

func (s *Server) QueryByKeyRangeHandler(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	iter, err := s.ledger.QueryByKeyRange(start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := iter.Drain()
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []ledger.KeyedAsset{}
	}
	writeJSON(w, results)
}

func (s *Server) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("assetId")
	if id == "" {
		writeBadRequest(w, "Missing assetId parameter")
		return
	}
	entries, err := s.ledger.GetHistory(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, entries)
}

// NotificationsHandler serves the recent emissions buffered by the feed,
// oldest first, for polling subscribers.
func (s *Server) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	if s.feed == nil {
		writeJSON(w, []notify.Emission{})
		return
	}
	writeJSON(w, s.feed.Recent())
}

func (s *Server) OperationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"operations": s.registry.Operations()})
}
