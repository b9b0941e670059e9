package app

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *App) registerHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/readyz", a.handleReadyz)
	mux.Handle("/metrics", promhttp.Handler())
	a.auth.Register(mux)
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleReadyz reports whether the process can serve traffic. With a
// database configured and WARD_READINESS_REQUIRE_DB set, a failed ping
// turns the probe red so load balancers stop routing here.
func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	if a.pool != nil {
		if err := PingDB(r.Context(), a.pool); err != nil {
			a.log.Warn("readyz.db_ping.fail", "error", err)
			body["db"] = "unreachable"
			if a.cfg.ReadinessRequireDB {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		} else {
			body["db"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
