// Package server serves the OAuth redirect target of the bot.
//
// Spotify redirects the browser to the configured redirect URI with a one-time code. The
// [CallbackHandler] displays that code so it can be pasted into the form opened by
// /authenticate; the bot never exchanges codes over HTTP.
//
// [StatusHandler] reports whether a session is installed.
//
// # Router
//
// The [Router] interface defines HTTP routing with middleware support. [Middleware] wraps
// handlers in reverse order (last added executes first). [BasicRouter] uses [http.ServeMux]
// internally with method filtering.
package server
