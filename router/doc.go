// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes for the chainpoll API.

Routes use Go 1.22+ method-and-pattern routing on the standard
ServeMux. NewRouter wires the handlers to the poll service and the
optional purge port:

	mux := router.NewRouter(svc, purger, cfg)
	server := http.Server{Handler: middleware.CORS(mux)}

purger may be nil; DELETE /polls/{id} then answers 501.
*/
package router
