// Package calendar wraps the Google Calendar API for meeting creation.
//
// Each call inserts exactly one event into the user's primary calendar
// with conferenceDataVersion=1 and a hangoutsMeet conference request, and
// returns the generated Meet link, conference id and event id. The
// conference request id is unique per call, so duplicate client
// submissions still produce duplicate events; only transport-level
// retries of one call are deduplicated by the provider.
package calendar
