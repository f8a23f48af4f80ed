// Package httpx provides helpers for building http clients.
package httpx

import "net/http"

// RoundTripperFunc is an adapter to use ordinary functions as http.RoundTripper.
type RoundTripperFunc func(r *http.Request) (*http.Response, error)

// RoundTrip proxies call to the wrapped function.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// HeaderTransport returns a transport setting the given header on every
// outgoing request before handing it to http.DefaultTransport.
func HeaderTransport(key, value string) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		r.Header.Set(key, value)
		return http.DefaultTransport.RoundTrip(r)
	})
}
