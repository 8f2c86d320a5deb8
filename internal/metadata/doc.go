// Package metadata provides the HTTP gateway to the sample metadata service.
//
// # Overview
//
// This package is the only place that talks to the remote service. It fetches
// linelist entries, saves single cells, removes whole fields, and covers the
// small project-level calls used by the CLI (details, attribute edits, member
// removal). It holds no state beyond the base URL and project scope.
//
// # Client Usage
//
//	client, err := metadata.NewClient(metadata.ClientOptions{
//		APIURL:    "127.0.0.1:8080",
//		ProjectID: "42",
//	})
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	entries, err := client.FetchEntries(ctx, "")
//	err = client.SaveField(ctx, metadata.SaveRequest{SampleID: "S1", Field: "age", Label: "Age", Value: 31.0})
//	result, err := client.DeleteField(ctx, "age")
//
// # API Endpoints
//
//   - GET    /api/projects/{id}/linelist/entries
//   - PUT    /api/projects/{id}/linelist/entries/{sampleId}
//   - DELETE /api/projects/{id}/linelist/fields/{field}
//   - GET    /api/projects/{id}
//   - PATCH  /api/projects/{id}
//   - DELETE /api/projects/{id}/members/{userId}
//
// Entries travel in a flat shape where the sample identifier sits beside the
// metadata values:
//
//	{"entries": [{"sampleId": "S1", "age": 30, "site": "Lab A"}]}
//
// # Error Handling
//
// Every call is single-attempt. Failures come back as *APIError, classified by
// kind so callers can branch without string matching:
//
//   - ErrTransport: network failure, unexpected status, undecodable body
//   - ErrValidation: 400/409/422 or arguments rejected before sending
//   - ErrNotFound: 404/410, usually a stale sample or field reference
//
//	if errors.Is(err, metadata.ErrValidation) {
//		// show metadata.UserMessage(err)
//	}
//
// # Request Handling
//
// Requests carry Accept: application/json, a linelist/* User-Agent and an
// X-Request-ID header. Attach a known ID with WithRequestID to correlate a
// request with log lines; otherwise a random UUID is sent.
//
// # Thread Safety
//
// Client is safe for concurrent use; the synchronization process issues saves
// from several goroutines at once.
package metadata
