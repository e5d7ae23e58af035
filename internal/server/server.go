// Package server exposes the leaderboard service over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verte-zerg/typelab/internal/model"
	"github.com/verte-zerg/typelab/internal/score"
)

// Rejection reasons on the wire. Clients must not retry "invalid" or
// "duplicate"; "unavailable" may be retried.
const (
	ReasonInvalid     = "invalid"
	ReasonDuplicate   = "duplicate"
	ReasonUnavailable = "unavailable"
)

// Server wires the score service into HTTP handlers.
type Server struct {
	svc *score.Service
	hub *Hub
}

// New returns a Server over the given service. The caller runs the hub.
func New(svc *score.Service, hub *Hub) *Server {
	return &Server{svc: svc, hub: hub}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	api := r.Group("/api")
	{
		api.POST("/scores", s.submitScore)
		api.GET("/scores", s.listScores)
		api.GET("/leaderboard", s.leaderboard)
	}
	r.GET("/ws", func(c *gin.Context) {
		ServeWs(s.hub, c.Writer, c.Request)
	})
	return r
}

type submitRequest struct {
	Name     string   `json:"name"`
	WPM      *float64 `json:"wpm"`
	Accuracy *float64 `json:"accuracy"`
	RawWPM   *float64 `json:"rawWpm"`
}

func (s *Server) submitScore(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectError(c, http.StatusBadRequest, ReasonInvalid, "malformed request body")
		return
	}
	if req.WPM == nil || req.Accuracy == nil {
		rejectError(c, http.StatusBadRequest, ReasonInvalid, "wpm and accuracy are required")
		return
	}
	rec, err := s.svc.Submit(c.Request.Context(), model.Submission{
		Name:     req.Name,
		WPM:      *req.WPM,
		Accuracy: *req.Accuracy,
		RawWPM:   req.RawWPM,
	})
	switch {
	case errors.Is(err, score.ErrInvalidSubmission):
		rejectError(c, http.StatusBadRequest, ReasonInvalid, err.Error())
	case errors.Is(err, score.ErrDuplicate):
		rejectError(c, http.StatusConflict, ReasonDuplicate, "duplicate submission suppressed")
	case err != nil:
		rejectError(c, http.StatusServiceUnavailable, ReasonUnavailable, "storage unavailable, try again")
	default:
		s.hub.Publish(Event{Event: "score", Data: rec})
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": rec})
	}
}

func (s *Server) listScores(c *gin.Context) {
	recs, err := s.svc.TopScores(c.Request.Context(), score.RawFeedLimit)
	if err != nil {
		rejectError(c, http.StatusServiceUnavailable, ReasonUnavailable, "storage unavailable, try again")
		return
	}
	respondList(c, recs)
}

func (s *Server) leaderboard(c *gin.Context) {
	recs, err := s.svc.Leaderboard(c.Request.Context(), score.LeaderboardLimit)
	if err != nil {
		rejectError(c, http.StatusServiceUnavailable, ReasonUnavailable, "storage unavailable, try again")
		return
	}
	respondList(c, recs)
}

func respondList(c *gin.Context, recs []model.ScoreRecord) {
	if recs == nil {
		recs = []model.ScoreRecord{}
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": recs})
}

func rejectError(c *gin.Context, status int, reason, message string) {
	c.JSON(status, gin.H{"success": false, "reason": reason, "error": message})
}
