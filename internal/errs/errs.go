// Package errs defines the error types returned to HTTP clients.
//
// Handlers and services return *HTTPError values (or plain errors that the
// global error handler converts), so every failure reaches the client with a
// consistent shape: JSON by default, or a bare text body for errors marked
// PlainText.
package errs
