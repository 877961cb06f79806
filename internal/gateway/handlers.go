package gateway

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"papertradev1/internal/desk"
	"papertradev1/internal/metrics"
	"papertradev1/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// SetCORS sets CORS headers for REST endpoints.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	SetCORS(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	SetCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, desk.ErrStrategyNotFound), errors.Is(err, desk.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, desk.ErrPositionClosed):
		return http.StatusConflict
	case errors.Is(err, desk.ErrInvalidQuantity), errors.Is(err, desk.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// preflight answers OPTIONS and reports whether the request is done.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodOptions {
		SetCORS(w)
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		SetCORS(w)
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// RegisterRoutes registers all HTTP routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, hub *Hub, svc *desk.Service, health *metrics.HealthStatus) {
	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[gateway] ws upgrade error: %v", err)
			return
		}
		hub.HandleWSRequest(conn)
	})

	// REST: trading segments
	mux.HandleFunc("/api/segments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Segments())
	})

	// REST: strategies for one segment
	mux.HandleFunc("/api/strategies", func(w http.ResponseWriter, r *http.Request) {
		seg := model.Segment(r.URL.Query().Get("segment"))
		if seg == "" {
			seg = model.SegmentEquity
		}
		writeJSON(w, svc.Strategies(seg))
	})

	// REST: single strategy detail
	mux.HandleFunc("/api/strategy", func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Strategy(r.URL.Query().Get("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, st)
	})

	// REST: position sizing advice
	mux.HandleFunc("/api/suggest", func(w http.ResponseWriter, r *http.Request) {
		advice, err := svc.Suggest(r.URL.Query().Get("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, advice)
	})

	// REST: full portfolio with live marks
	mux.HandleFunc("/api/portfolio", func(w http.ResponseWriter, r *http.Request) {
		positions, err := svc.Positions()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, positions)
	})

	// REST: capital ledger summary
	mux.HandleFunc("/api/portfolio/summary", func(w http.ResponseWriter, r *http.Request) {
		sum, err := svc.Summary()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, sum)
	})

	// REST: add a position (simulated fill)
	mux.HandleFunc("/api/portfolio/add", func(w http.ResponseWriter, r *http.Request) {
		if preflight(w, r) || !requirePost(w, r) {
			return
		}
		var req struct {
			StrategyID string `json:"strategyId"`
			Quantity   int64  `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			SetCORS(w)
			http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
			return
		}
		ack, err := svc.Add(r.Context(), req.StrategyID, req.Quantity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, ack)
	})

	// REST: close a position
	mux.HandleFunc("/api/portfolio/close", func(w http.ResponseWriter, r *http.Request) {
		if preflight(w, r) || !requirePost(w, r) {
			return
		}
		var req struct {
			PositionID string `json:"positionId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			SetCORS(w)
			http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
			return
		}
		closed, err := svc.Close(r.Context(), req.PositionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, closed)
	})

	// REST: add to (or replace) base capital
	mux.HandleFunc("/api/capital", func(w http.ResponseWriter, r *http.Request) {
		if preflight(w, r) || !requirePost(w, r) {
			return
		}
		var req struct {
			Amount decimal.Decimal `json:"amount"`
			Mode   string          `json:"mode"` // "add" (default) or "set"
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			SetCORS(w)
			http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
			return
		}
		if req.Mode == "set" {
			if err := svc.SetCapital(r.Context(), req.Amount); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, map[string]interface{}{"baseCapital": req.Amount})
			return
		}
		newBase, err := svc.AddCapital(r.Context(), req.Amount)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"baseCapital": newBase})
	})

	// REST: wipe the portfolio
	mux.HandleFunc("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		if preflight(w, r) || !requirePost(w, r) {
			return
		}
		if err := svc.Reset(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})

	// REST: market overview
	mux.HandleFunc("/api/market", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.MarketOverview())
	})

	// REST: mock risk analysis for a strategy
	mux.HandleFunc("/api/risk", func(w http.ResponseWriter, r *http.Request) {
		ra, err := svc.RiskAnalysis(r.URL.Query().Get("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, ra)
	})

	// Health endpoint (the metrics server exposes the detailed /healthz)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health.ServeHTTP(w, r)
	})
}
