package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// DefaultSummary is used when the caller provides no meeting title.
	DefaultSummary = "Google Meet Meeting"

	// DefaultDuration is used when the caller provides no duration.
	DefaultDuration = 60 * time.Minute

	// primaryCalendarID targets the signed-in user's primary calendar.
	primaryCalendarID = "primary"

	// hangoutsMeetSolution requests an auto-generated Google Meet link.
	hangoutsMeetSolution = "hangoutsMeet"
)

// Client creates calendar events with Meet conferencing attached. It is
// stateless: every call builds a short-lived service authenticated with
// the caller's own token pair.
type Client struct {
	conf *oauth2.Config
	opts []option.ClientOption
}

// NewClient creates a calendar client using the given OAuth config to
// build refreshing token sources. Extra options are forwarded to the
// calendar service, which lets tests point it at a fake endpoint.
func NewClient(conf *oauth2.Config, opts ...option.ClientOption) *Client {
	return &Client{conf: conf, opts: opts}
}

// CreateMeeting inserts one event into the user's primary calendar with
// an auto-generated Meet link and returns the resulting meeting. The
// token pair authorizes the call; an expired access token is refreshed
// transparently through the refresh token. No retry is attempted here.
func (c *Client) CreateMeeting(ctx context.Context, token *oauth2.Token, input MeetingInput) (*Meeting, error) {
	httpClient := oauth2.NewClient(ctx, c.conf.TokenSource(ctx, token))

	// Force HTTP/1.1 to avoid HTTP/2 protocol errors against Google APIs.
	if transport, ok := httpClient.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{ForceAttemptHTTP2: false}
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	event := buildEvent(input, time.Now())
	created, err := svc.Events.Insert(primaryCalendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return toMeeting(created), nil
}

// buildEvent constructs the calendar event payload. Start and end are
// expressed in UTC. The conference request id is derived from the call's
// creation timestamp so a transport-level retry of the same insert does
// not mint a second Meet link.
func buildEvent(input MeetingInput, now time.Time) *calendar.Event {
	summary := input.Summary
	if summary == "" {
		summary = DefaultSummary
	}

	start := input.Start
	if start.IsZero() {
		start = now
	}
	start = start.UTC()

	duration := input.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	end := start.Add(duration)

	return &calendar.Event{
		Summary: summary,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: fmt.Sprintf("meet-%d", now.UnixMilli()),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: hangoutsMeetSolution,
				},
			},
		},
	}
}

// toMeeting converts a created calendar event to a Meeting. The meeting
// link is the first conferencing entry point the provider returned.
func toMeeting(event *calendar.Event) *Meeting {
	m := &Meeting{
		EventID: event.Id,
		Summary: event.Summary,
	}

	if event.ConferenceData != nil {
		m.MeetingID = event.ConferenceData.ConferenceId
		if len(event.ConferenceData.EntryPoints) > 0 {
			m.MeetingLink = event.ConferenceData.EntryPoints[0].Uri
		}
	}

	if event.Start != nil && event.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
			m.Start = t
		}
	}
	if event.End != nil && event.End.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
			m.End = t
		}
	}

	return m
}
