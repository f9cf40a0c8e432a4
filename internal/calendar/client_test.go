package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func TestBuildEventExplicitStartAndDuration(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2025-01-01T10:00:00Z")
	now := time.Now()

	event := buildEvent(MeetingInput{
		Summary:  "Planning",
		Start:    start,
		Duration: 30 * time.Minute,
	}, now)

	assert.Equal(t, "Planning", event.Summary)
	assert.Equal(t, "2025-01-01T10:00:00Z", event.Start.DateTime)
	assert.Equal(t, "2025-01-01T10:30:00Z", event.End.DateTime)
	assert.Equal(t, "UTC", event.Start.TimeZone)
	assert.Equal(t, "UTC", event.End.TimeZone)
}

func TestBuildEventDefaults(t *testing.T) {
	now := time.Now()
	event := buildEvent(MeetingInput{}, now)

	assert.Equal(t, DefaultSummary, event.Summary)

	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	require.NoError(t, err)
	assert.WithinDuration(t, now, start, 5*time.Second)

	end, err := time.Parse(time.RFC3339, event.End.DateTime)
	require.NoError(t, err)
	assert.Equal(t, DefaultDuration, end.Sub(start))
}

func TestBuildEventConferenceRequest(t *testing.T) {
	now := time.Now()
	event := buildEvent(MeetingInput{Summary: "Instant Meeting"}, now)

	require.NotNil(t, event.ConferenceData)
	require.NotNil(t, event.ConferenceData.CreateRequest)
	assert.True(t, strings.HasPrefix(event.ConferenceData.CreateRequest.RequestId, "meet-"))
	require.NotNil(t, event.ConferenceData.CreateRequest.ConferenceSolutionKey)
	assert.Equal(t, hangoutsMeetSolution, event.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
}

func TestBuildEventNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, loc)

	event := buildEvent(MeetingInput{Start: start, Duration: 15 * time.Minute}, time.Now())

	assert.Equal(t, "2025-03-01T10:00:00Z", event.Start.DateTime)
	assert.Equal(t, "2025-03-01T10:15:00Z", event.End.DateTime)
}

func TestToMeeting(t *testing.T) {
	event := &calendarapi.Event{
		Id:      "event-1",
		Summary: "Instant Meeting",
		Start:   &calendarapi.EventDateTime{DateTime: "2025-01-01T10:00:00Z"},
		End:     &calendarapi.EventDateTime{DateTime: "2025-01-01T10:30:00Z"},
		ConferenceData: &calendarapi.ConferenceData{
			ConferenceId: "abc-defg-hij",
			EntryPoints: []*calendarapi.EntryPoint{
				{EntryPointType: "video", Uri: "https://meet.google.com/abc-defg-hij"},
				{EntryPointType: "phone", Uri: "tel:+1-555-0100"},
			},
		},
	}

	m := toMeeting(event)
	assert.Equal(t, "event-1", m.EventID)
	assert.Equal(t, "abc-defg-hij", m.MeetingID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", m.MeetingLink)
	assert.Equal(t, "2025-01-01T10:00:00Z", m.Start.Format(time.RFC3339))
	assert.Equal(t, "2025-01-01T10:30:00Z", m.End.Format(time.RFC3339))
}

func TestToMeetingWithoutConferenceData(t *testing.T) {
	m := toMeeting(&calendarapi.Event{Id: "event-2"})
	assert.Equal(t, "event-2", m.EventID)
	assert.Empty(t, m.MeetingLink)
	assert.Empty(t, m.MeetingID)
}

func TestCreateMeeting(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	var gotEvent calendarapi.Event

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("conferenceDataVersion")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&calendarapi.Event{
			Id:      "event-1",
			Summary: gotEvent.Summary,
			Start:   gotEvent.Start,
			End:     gotEvent.End,
			ConferenceData: &calendarapi.ConferenceData{
				ConferenceId: "abc-defg-hij",
				EntryPoints: []*calendarapi.EntryPoint{
					{EntryPointType: "video", Uri: "https://meet.google.com/abc-defg-hij"},
				},
			},
		})
	}))
	defer ts.Close()

	client := NewClient(&oauth2.Config{}, option.WithEndpoint(ts.URL))
	token := &oauth2.Token{AccessToken: "test-token", Expiry: time.Now().Add(time.Hour)}

	start, _ := time.Parse(time.RFC3339, "2025-01-01T10:00:00Z")
	meeting, err := client.CreateMeeting(context.Background(), token, MeetingInput{
		Summary:  "Instant Meeting",
		Start:    start,
		Duration: 30 * time.Minute,
	})
	require.NoError(t, err)

	assert.Contains(t, gotPath, "calendars/primary/events")
	assert.Equal(t, "1", gotQuery)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "2025-01-01T10:30:00Z", gotEvent.End.DateTime)

	assert.Equal(t, "https://meet.google.com/abc-defg-hij", meeting.MeetingLink)
	assert.Equal(t, "abc-defg-hij", meeting.MeetingID)
	assert.Equal(t, "event-1", meeting.EventID)
}

func TestCreateMeetingUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid credentials"}}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewClient(&oauth2.Config{}, option.WithEndpoint(ts.URL))
	token := &oauth2.Token{AccessToken: "bad-token", Expiry: time.Now().Add(time.Hour)}

	_, err := client.CreateMeeting(context.Background(), token, MeetingInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create event")
}
