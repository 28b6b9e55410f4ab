package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aescanero/wdcsim/internal/application/relay"
	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// DefaultsResponse carries the cookie-derived defaults and the static tables
type DefaultsResponse struct {
	Defaults  *simconfig.Defaults `json:"defaults"`
	Constants simconfig.Constants `json:"constants"`
}

// PreferencesRequest updates stored preferences. Omitted fields are left
// untouched. URL is pushed to the front of the most-recent list.
type PreferencesRequest struct {
	ShowAdvanced   *bool    `json:"showAdvanced"`
	MostRecentURLs []string `json:"mostRecentUrls"`
	URL            string   `json:"url"`
}

// MessageRequest is a connector message submitted over HTTP
type MessageRequest struct {
	Event   string          `json:"event" binding:"required"`
	Phase   string          `json:"phase"`
	Payload json.RawMessage `json:"payload"`
}

func writeError(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"checks": gin.H{
			"relay": "ok",
		},
		"active_sessions": s.relay.ActiveSessions(),
	})
}

// loadDefaults reads the defaults from the requesting client's jar
func (s *Server) loadDefaults(c *gin.Context) (ports.CookieJar, *simconfig.Defaults, bool) {
	jar, err := s.jars.JarFor(c)
	if err != nil {
		s.logger.Error("failed to resolve cookie jar", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "PREFERENCES_UNAVAILABLE", "Failed to resolve preference store", err.Error())
		return nil, nil, false
	}

	defaults := simconfig.Load(c.Request.Context(), jar)
	s.metrics.RecordDefaultsLoaded(defaults.Sources())
	return jar, defaults, true
}

// handleGetDefaults returns the simulator defaults for the requesting client
func (s *Server) handleGetDefaults(c *gin.Context) {
	_, defaults, ok := s.loadDefaults(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, DefaultsResponse{
		Defaults:  defaults,
		Constants: simconfig.StaticConstants(),
	})
}

// handleGetConstants returns the static tables
func (s *Server) handleGetConstants(c *gin.Context) {
	c.JSON(http.StatusOK, simconfig.StaticConstants())
}

// handleGetEventNames returns the event-name registry
func (s *Server) handleGetEventNames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": simconfig.EventNames()})
}

// handleGetPhases returns the phase registry
func (s *Server) handleGetPhases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": simconfig.Phases()})
}

// handleGetVisOptions returns the graph styling options
func (s *Server) handleGetVisOptions(c *gin.Context) {
	c.JSON(http.StatusOK, simconfig.DefaultVisOptions())
}

// handleUpdatePreferences writes preference cookies. Both values are encoded
// before anything is stored, and a failed mostRecentUrls write puts the
// previous showAdvanced value back.
func (s *Server) handleUpdatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if req.ShowAdvanced == nil && req.MostRecentURLs == nil && req.URL == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "No preference to update", nil)
		return
	}

	jar, current, ok := s.loadDefaults(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var showRaw, urlsRaw string
	var err error
	if req.ShowAdvanced != nil {
		if showRaw, err = simconfig.EncodeCookieValue(*req.ShowAdvanced); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}
	}

	updateURLs := req.MostRecentURLs != nil || req.URL != ""
	if updateURLs {
		urls := current.MostRecentURLs()
		if req.MostRecentURLs != nil {
			urls = req.MostRecentURLs
		}
		urls = simconfig.RememberURL(urls, req.URL, s.maxRecentURLs)
		if len(urls) > 0 {
			if urlsRaw, err = simconfig.EncodeCookieValue(urls); err != nil {
				writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
				return
			}
		}
	}

	if req.ShowAdvanced != nil {
		if err := jar.Set(ctx, simconfig.CookieShowAdvanced, showRaw); err != nil {
			s.preferenceError(c, err)
			return
		}
	}

	if updateURLs {
		if urlsRaw == "" {
			err = jar.Remove(ctx, simconfig.CookieMostRecentURLs)
		} else {
			err = jar.Set(ctx, simconfig.CookieMostRecentURLs, urlsRaw)
		}
		if err != nil {
			if req.ShowAdvanced != nil {
				s.restoreShowAdvanced(c, jar, current)
			}
			s.preferenceError(c, err)
			return
		}
	}

	s.metrics.RecordPreferenceWrite(s.jars.Backend())

	c.JSON(http.StatusOK, DefaultsResponse{
		Defaults:  simconfig.Load(ctx, jar),
		Constants: simconfig.StaticConstants(),
	})
}

// handleClearPreferences drops every stored preference
func (s *Server) handleClearPreferences(c *gin.Context) {
	if err := s.jars.Clear(c); err != nil {
		s.preferenceError(c, err)
		return
	}

	s.metrics.RecordPreferenceWrite(s.jars.Backend())

	c.JSON(http.StatusOK, DefaultsResponse{
		Defaults:  simconfig.Load(c.Request.Context(), nil),
		Constants: simconfig.StaticConstants(),
	})
}

// restoreShowAdvanced puts back the showAdvanced cookie seen before an update
func (s *Server) restoreShowAdvanced(c *gin.Context, jar ports.CookieJar, previous *simconfig.Defaults) {
	ctx := c.Request.Context()

	var err error
	if previous.Sources().ShowAdvanced {
		var raw string
		if raw, err = simconfig.EncodeCookieValue(previous.ShowAdvanced()); err == nil {
			err = jar.Set(ctx, simconfig.CookieShowAdvanced, raw)
		}
	} else {
		err = jar.Remove(ctx, simconfig.CookieShowAdvanced)
	}
	if err != nil {
		s.logger.Error("failed to restore showAdvanced cookie", zap.Error(err))
	}
}

func (s *Server) preferenceError(c *gin.Context, err error) {
	s.logger.Error("failed to update preferences", zap.Error(err))
	writeError(c, http.StatusInternalServerError, "PREFERENCES_UNAVAILABLE", "Failed to update preferences", err.Error())
}

// handleOpenSession opens a relay session seeded with the client's defaults
func (s *Server) handleOpenSession(c *gin.Context) {
	_, defaults, ok := s.loadDefaults(c)
	if !ok {
		return
	}

	info, err := s.relay.OpenSession(c.Request.Context(), defaults)
	if err != nil {
		s.logger.Error("failed to open session", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "SESSION_FAILED", err.Error(), nil)
		return
	}

	c.JSON(http.StatusCreated, info)
}

// handleGetSession returns a relay session
func (s *Server) handleGetSession(c *gin.Context) {
	info, err := s.relay.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
		return
	}

	c.JSON(http.StatusOK, info)
}

// handleCloseSession closes a relay session
func (s *Server) handleCloseSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := s.relay.CloseSession(c.Request.Context(), sessionID); err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"status":     "closed",
	})
}

// handlePublishMessage relays a connector message
func (s *Server) handlePublishMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	event, err := relay.ParseEvent(req.Event)
	if err != nil {
		s.metrics.RecordMessageRejected(relay.ReasonUnknownEvent)
		s.writeRelayError(c, err)
		return
	}

	msg, err := s.relay.Publish(c.Request.Context(), ports.Message{
		SessionID: c.Param("id"),
		Event:     event,
		Phase:     simconfig.Phase(req.Phase),
		Payload:   req.Payload,
	})
	if err != nil {
		s.writeRelayError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, msg)
}

// writeRelayError maps relay errors to HTTP responses
func (s *Server) writeRelayError(c *gin.Context, err error) {
	var verr *relay.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, "INVALID_MESSAGE", verr.Detail, gin.H{"reason": verr.Reason})
	case errors.Is(err, ports.ErrSessionNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
	default:
		s.logger.Error("failed to relay message", zap.Error(err))
		writeError(c, http.StatusBadGateway, "RELAY_FAILED", "Failed to relay message", err.Error())
	}
}
