// Package middleware provides the HTTP access guard. The guard sits in front
// of every route, classifies the request path (public, entry page, API,
// protected page), authenticates the caller from the Authorization header or
// the token cookies, silently refreshes an expired access token when a refresh
// token is available, and answers failures with a redirect for page routes or
// a uniform 401 body for API routes.
package middleware
