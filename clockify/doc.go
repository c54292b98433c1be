// Package clockify is a thin client for the Clockify REST API.
//
// Every Client method is one HTTP request followed by one decode pass:
//
//	client := clockify.NewClient(apiKey, "", nil)
//	workspaces, err := client.Workspaces(ctx)
//	if err != nil {
//		return err
//	}
//	for _, ws := range workspaces {
//		projects, err := client.Projects(ctx, ws)
//		...
//	}
//
// Methods that need a parent accept either the decoded record or a raw
// identifier wrapped in ID, so client.Tags(ctx, ws) and
// client.Tags(ctx, clockify.ID(ws.ID)) hit the same URL.
//
// # Errors
//
// HTTP 401 and 403 map to ErrUnauthorized and ErrForbidden. HTTP 404 is a
// *NotFoundError carrying the URL. A body that is not JSON is a
// *ResponseNotJSONError. Payloads that arrive but cannot be mapped (unknown
// enum token, null or missing enum, malformed duration or timestamp) are a
// *DecodeError. Nothing is retried and nothing is cached.
//
// Any other error status with a JSON body is an *APIError carrying the status
// and raw body. The body is not handed to the record decoders, so callers
// never see an error payload reported as a shape mismatch.
//
// # Durations
//
// The API encodes spans as "PT<h>H<m>M<s>S" with any component optional.
// ParseDuration and FormatDuration convert between that and time.Duration.
package clockify
