// Package network provides the HTTP transport shared by every portal request.
package network

import (
	"net/http"
	"time"
)

// Transport is the pooled transport shared by all clients.
var Transport = newTransport()

// Client is the default HTTP client. Portal clients built with New override its timeout.
var Client = New(time.Minute)

// New returns a client on the shared transport with the given request timeout.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: Transport,
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}
