package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool           `json:"ok"`
	IndexersLoaded *int           `json:"indexers_loaded,omitempty"`
	LastReload     string         `json:"last_reload,omitempty"`
	File           string         `json:"file,omitempty"`
	States         map[string]int `json:"states,omitempty"`
	Mode           string         `json:"mode,omitempty"`
	Impact         string         `json:"impact,omitempty"`
	Error          string         `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loaded := d.MemoryIndex.Count()
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"definitions": {
				OK:             loaded > 0,
				IndexersLoaded: &loaded,
				LastReload:     lastReloadStr,
				File:           d.IndexerFile,
			},
			"indexers": indexerHealth(d),
			"redis":    checkRedis(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if defs, exists := components["definitions"]; exists && !defs.OK {
		return "critical" // Nothing to search
	}
	if ix, exists := components["indexers"]; exists && !ix.OK {
		return "critical"
	}

	// Redis only backs persistence
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}
	for state, n := range components["indexers"].States {
		if state != string(domain.StateHealthy) && n > 0 {
			return "degraded"
		}
	}
	return "optimal"
}

// indexerHealth counts usable indexers per health state.
func indexerHealth(d deps.Deps) componentStatus {
	states := map[string]int{}
	usable := 0
	for _, t := range d.MemoryIndex.Targets() {
		st := d.Status.Get(t.Definition.ID)
		states[string(st.State)]++
		if st.State != domain.StateDisabled {
			usable++
		}
	}
	cs := componentStatus{OK: usable > 0, States: states}
	if usable == 0 {
		cs.Error = "no usable indexer"
	}
	return cs
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "state-persistence-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "state-persistence-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "state-persistence-enabled",
	}
}
