package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/instameet/instameet/internal/calendar"
	"github.com/instameet/instameet/internal/instrumentation"
	"github.com/instameet/instameet/internal/logging"
)

// meetingRequest is the POST /api/meetings body. All fields are
// optional: summary defaults upstream, startTime defaults to now,
// duration defaults to 60 minutes.
type meetingRequest struct {
	Summary   string `json:"summary"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
}

// meetingResponse is the success body for POST /api/meetings.
type meetingResponse struct {
	MeetingLink string `json:"meetingLink"`
	MeetingID   string `json:"meetingId"`
	EventID     string `json:"eventId"`
}

// handleCreateMeeting exchanges the caller's session for one calendar
// event with an auto-generated Meet link.
func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.logger, "meetings.create")

	sess, err := s.cfg.Sessions.FromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized - No session")
		return
	}
	if !sess.HasProviderToken() {
		writeError(w, http.StatusUnauthorized, "No access token available")
		return
	}

	// An empty body is a valid request for an instant meeting with
	// defaults.
	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := calendar.MeetingInput{
		Summary:  req.Summary,
		Duration: time.Duration(req.Duration) * time.Minute,
	}
	if req.StartTime != "" {
		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "startTime must be an RFC 3339 timestamp")
			return
		}
		input.Start = start
	}

	// The upstream insert finishes even if the client goes away; an
	// aborted request must not half-apply a calendar write.
	ctx, span := s.tracer.Start(context.WithoutCancel(r.Context()), "meetings.create")
	defer span.End()

	start := time.Now()
	meeting, err := s.cfg.Meetings.CreateMeeting(ctx, sess.Token(), input)
	duration := time.Since(start)

	if err != nil {
		s.cfg.Metrics.RecordCalendarOperation(ctx, "events.insert", instrumentation.StatusError, duration)
		logger.Error("meeting creation failed", logging.UserHash(sess.UserID), logging.Err(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cfg.Metrics.RecordCalendarOperation(ctx, "events.insert", instrumentation.StatusSuccess, duration)
	logger.Info("meeting created",
		logging.UserHash(sess.UserID),
		logging.Status(logging.StatusSuccess),
		"event_id", meeting.EventID,
	)

	writeJSON(w, http.StatusOK, meetingResponse{
		MeetingLink: meeting.MeetingLink,
		MeetingID:   meeting.MeetingID,
		EventID:     meeting.EventID,
	})
}
