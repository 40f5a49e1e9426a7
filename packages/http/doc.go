// Package http provides the transport used to execute reqline requests.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts
//   - Redirect handling
//   - Proxy and TLS verification settings
//   - Default headers applied to every request
//   - Non-2xx responses reported as *StatusError unless disabled
//   - Response bodies decoded as JSON when they parse, raw text otherwise
package http
