// Package server exposes the compliance checker over HTTP.
//
// Routes:
//
//	GET  /                             service status
//	GET  /health                       liveness probe
//	GET  /api/config/status            lexicon readiness
//	GET  /api/stats                    checker metrics
//	POST /api/articles/check-compliance
//
// Routes under /api require an API key sent as a bearer token, an
// X-API-Key header or an api_key query parameter. Loopback clients may be
// admitted without a key when AllowNoAuth is set.
package server
