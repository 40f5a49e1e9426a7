// Package capture selects single values out of an executed request's result.
//
// Selectors are dotted paths rooted at one of:
//   - status    the response HTTP status
//   - duration  the elapsed milliseconds
//   - url       the full URL that was requested
//   - body      the response data, optionally followed by a gjson path
//   - headers, query  the request sections that were sent
//
// "body.items.0.id" therefore picks the id of the first item in a JSON
// response.
package capture
