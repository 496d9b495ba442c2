package webui

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/alantheprice/outreach/pkg/campaign"
	"github.com/alantheprice/outreach/pkg/service"
	"github.com/alantheprice/outreach/pkg/utils"
)

const maxBodyBytes = 1 << 20

type requestFlags struct {
	RegenerateSingle bool `json:"regenerateSingle"`
}

// handleAPICampaign accepts a generation request, or a regeneration request
// when the body sets regenerateSingle.
func (s *Server) handleAPICampaign(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, false)
}

// handleAPIRegenerate accepts a single-step regeneration request.
func (s *Server) handleAPIRegenerate(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, true)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, regenerate bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := s.auth.Authorize(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, utils.NewValidationError("body", err.Error()))
		return
	}

	var flags requestFlags
	if err := json.Unmarshal(body, &flags); err != nil {
		s.writeError(w, utils.NewValidationError("body", "invalid JSON"))
		return
	}
	regenerate = regenerate || flags.RegenerateSingle

	if err := validateBody(body, regenerate); err != nil {
		s.writeError(w, err)
		return
	}

	ack, err := s.submitter.Submit(r.Context(), service.Job{
		UserID:           id.UserID,
		TeamID:           id.TeamID,
		RegenerateSingle: regenerate,
		Body:             body,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jobCount.Add(1)
	writeJSON(w, http.StatusOK, ack)
}

// validateBody rejects requests the pipeline would refuse, so that the client
// hears about them instead of the job failing in the background.
func validateBody(body []byte, regenerate bool) error {
	if regenerate {
		var req campaign.RegenerateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return utils.NewValidationError("body", err.Error())
		}
		return req.Validate()
	}
	var req campaign.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return utils.NewValidationError("body", err.Error())
	}
	return req.Validate()
}

// handleAPIStats reports server statistics
func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.gatherStats())
}

func (s *Server) gatherStats() map[string]interface{} {
	uptime := time.Since(s.startTime)
	return map[string]interface{}{
		"uptime_seconds":   int64(uptime.Seconds()),
		"connections":      s.countConnections(),
		"jobs":             s.jobCount.Load(),
		"server_time":      time.Now().Unix(),
		"start_time":       s.startTime.Unix(),
		"uptime_formatted": uptime.String(),
	}
}

func statusFor(err error) int {
	switch {
	case utils.IsValidationError(err):
		return http.StatusBadRequest
	case utils.IsAuthorizationError(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.LogError(err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
