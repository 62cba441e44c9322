package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCountrySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/41.188.0.1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","country":"Madagascar"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if got := client.Country(context.Background(), "41.188.0.1"); got != "Madagascar" {
		t.Errorf("Country() = %q, want Madagascar", got)
	}
}

func TestCountryLookupFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","country":""}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if got := client.Country(context.Background(), "203.0.113.1"); got != UnknownCountry {
		t.Errorf("failed lookup = %q, want %q", got, UnknownCountry)
	}
}

func TestCountryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if got := client.Country(context.Background(), "203.0.113.1"); got != UnknownCountry {
		t.Errorf("server error = %q, want %q", got, UnknownCountry)
	}
}

func TestCountryUnreachableEndpoint(t *testing.T) {
	// Closed port: the request fails fast instead of erroring out.
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	if got := client.Country(context.Background(), "203.0.113.1"); got != UnknownCountry {
		t.Errorf("unreachable endpoint = %q, want %q", got, UnknownCountry)
	}
}

func TestCountryTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond)
	if got := client.Country(context.Background(), "203.0.113.1"); got != UnknownCountry {
		t.Errorf("timed-out lookup = %q, want %q", got, UnknownCountry)
	}
}

func TestCountrySkipsLoopbackAndEmpty(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	for _, ip := range []string{"", "127.0.0.1", "::1", "localhost"} {
		if got := client.Country(context.Background(), ip); got != UnknownCountry {
			t.Errorf("Country(%q) = %q, want %q", ip, got, UnknownCountry)
		}
	}
	if called {
		t.Error("loopback and empty IPs must not hit the lookup service")
	}
}
