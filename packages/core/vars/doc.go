// Package vars resolves {{...}} placeholders in reqline statements before
// they are parsed.
//
// A placeholder is one of:
//   - {{name}}       a variable from --var, an env file or an earlier capture
//   - {{$NAME}}      the process environment variable NAME
//   - {{uuid()}}     a built-in function call, see Funcs
//
// Unknown placeholders are left untouched and reported, so the parser still
// sees (and usually rejects) the original text.
package vars
