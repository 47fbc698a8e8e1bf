package api

import (
	"io"
	"net/http"

	"github.com/leoclee/wifilight/internal/light"
)

// handleGetLight returns the current lighting state. Live reads carry
// the device ID; broadcast and persisted snapshots do not.
func (s *Server) handleGetLight(w http.ResponseWriter, _ *http.Request) {
	snap := light.NewSnapshot(s.engine.Snapshot())
	snap.ID = s.deviceID
	writeJSON(w, http.StatusOK, snap)
}

// handleSetLight decodes a command payload and applies it to the
// engine, returning the resulting state.
//
// Tolerance matches the other transports: a body that is not a JSON
// object is rejected outright and the state stays untouched; within a
// valid object, invalid fields are dropped individually and the rest
// apply.
func (s *Server) handleSetLight(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "reading request body")
		return
	}

	update, err := light.DecodeUpdate(body)
	if err != nil {
		s.logger.Debug("rejecting malformed command", "error", err)
		writeBadRequest(w, "request body must be a JSON object")
		return
	}

	if _, err := s.engine.ApplyWait(r.Context(), update); err != nil {
		writeInternalError(w, "applying update")
		return
	}

	writeJSON(w, http.StatusOK, light.NewSnapshot(s.engine.Snapshot()))
}

// handleListEffects returns the names of the available effects.
func (s *Server) handleListEffects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"effects": s.engine.Effects(),
	})
}
