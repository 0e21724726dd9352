// Package server provides HTTP routing, middleware, and the operational status endpoint.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Status Handler
//
// [StatusHandler] serves the two operational routes of a running bot.
//
// /healthz answers plain-text "ok" for liveness probes; /status answers a JSON
// [StatusReport] with the process uptime and the number of stored sessions.
//
// # Current Usage
//
// The serve command starts this server on localhost when given the --http flag.
// It is intended for supervision, not for end users; the bot itself talks to
// Telegram over long polling and needs no inbound HTTP.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
