// Package parser turns reqline statements into request descriptions.
//
// A reqline is a single line of pipe-delimited segments:
//
//	HTTP GET | URL https://api.example.com/users | QUERY {"page": 2}
//
// The parser handles:
//   - The leading HTTP segment with a GET or POST method
//   - The required URL segment
//   - Optional HEADERS, QUERY and BODY segments carrying JSON objects
//   - Strict spacing around the " | " delimiter
//
// Parsing stops at the first violation and reports it as a *ParseError whose
// Kind identifies the rule that failed. The parser performs no I/O.
package parser
