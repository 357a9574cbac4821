package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/okian/debut/internal/adapters/remote"
	"github.com/okian/debut/internal/domain/agency"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeService is a minimal in-memory profile/agency service.
type fakeService struct {
	mu       sync.Mutex
	profile  *remote.Profile
	agencies []agency.Agency
	selected string
	auth     string
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /profile", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.auth = r.Header.Get("Authorization")
		if f.profile == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(f.profile)
	})
	mux.HandleFunc("PUT /profile", func(w http.ResponseWriter, r *http.Request) {
		var p remote.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad profile", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.profile = &p
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /agencies", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.agencies)
	})
	mux.HandleFunc("POST /agencies", func(w http.ResponseWriter, r *http.Request) {
		var a agency.Agency
		_ = json.NewDecoder(r.Body).Decode(&a)
		f.mu.Lock()
		f.agencies = append(f.agencies, a)
		f.selected = a.Name
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /agency/select", func(w http.ResponseWriter, r *http.Request) {
		var a agency.Agency
		_ = json.NewDecoder(r.Body).Decode(&a)
		if a.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.selected = a.Name
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func TestHTTPClient(t *testing.T) {
	Convey("Given a client pointed at a running service", t, func() {
		ctx := context.Background()
		svc := &fakeService{agencies: []agency.Agency{{Name: "Remote Idols", Description: "From the cloud"}}}
		srv := httptest.NewServer(svc.handler())
		defer srv.Close()

		client, err := remote.NewHTTPClient(srv.URL+"/", remote.WithTimeout(time.Second), remote.WithBearerToken("tok"))
		So(err, ShouldBeNil)

		Convey("When no profile exists yet", func() {
			p, err := client.GetProfile(ctx)

			Convey("Then it should be absent without error", func() {
				So(err, ShouldBeNil)
				So(p, ShouldBeNil)
				So(svc.auth, ShouldEqual, "Bearer tok")
			})
		})

		Convey("When a profile is saved and fetched", func() {
			played := int64(1234)
			So(client.SaveProfile(ctx, remote.Profile{Name: "Mina", LastPlayed: &played}), ShouldBeNil)
			p, err := client.GetProfile(ctx)

			Convey("Then the fetched profile should match", func() {
				So(err, ShouldBeNil)
				So(p, ShouldNotBeNil)
				So(p.Name, ShouldEqual, "Mina")
				So(*p.LastPlayed, ShouldEqual, 1234)
			})
		})

		Convey("When agencies are listed and chosen", func() {
			list, err := client.ListAgencies(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldResemble, []agency.Agency{{Name: "Remote Idols", Description: "From the cloud"}})

			So(client.SelectAgency(ctx, "Galaxy Stars"), ShouldBeNil)
			So(svc.selected, ShouldEqual, "Galaxy Stars")

			So(client.CreateAgency(ctx, "My Label", "Indie"), ShouldBeNil)
			So(svc.selected, ShouldEqual, "My Label")
		})

		Convey("When the service rejects a request", func() {
			err := client.SelectAgency(ctx, "")

			Convey("Then a status error should carry the code and body", func() {
				var se *remote.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusBadRequest)
				So(se.Body, ShouldEqual, "name required")
			})
		})
	})

	Convey("Given a client pointed at nothing", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client, err := remote.NewHTTPClient(url, remote.WithTimeout(200*time.Millisecond))
		So(err, ShouldBeNil)

		Convey("Then calls should fail as unavailable", func() {
			_, err := client.ListAgencies(context.Background())
			So(errors.Is(err, remote.ErrUnavailable), ShouldBeTrue)
		})
	})
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	Convey("Given malformed base URLs", t, func() {
		for _, raw := range []string{"", "localhost:9000", "ftp://example.com", "http://"} {
			_, err := remote.NewHTTPClient(raw)
			So(errors.Is(err, remote.ErrInvalidURL), ShouldBeTrue)
		}
	})
}

type countingTransport struct {
	mu    sync.Mutex
	calls int
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return http.DefaultTransport.RoundTrip(r)
}

func TestHTTPClientTimeoutLeavesSharedClientAlone(t *testing.T) {
	Convey("Given a shared http.Client and a running service", t, func() {
		srv := httptest.NewServer((&fakeService{}).handler())
		defer srv.Close()
		transport := &countingTransport{}
		shared := &http.Client{Transport: transport}

		Convey("When a remote client is built with it and a timeout, in either order", func() {
			first, err := remote.NewHTTPClient(srv.URL, remote.WithHTTPClient(shared), remote.WithTimeout(time.Second))
			So(err, ShouldBeNil)
			second, err := remote.NewHTTPClient(srv.URL, remote.WithTimeout(time.Second), remote.WithHTTPClient(shared))
			So(err, ShouldBeNil)

			Convey("Then the shared client should keep its own timeout", func() {
				So(shared.Timeout, ShouldEqual, time.Duration(0))
			})

			Convey("And requests should still go through its transport", func() {
				_, err := first.ListAgencies(context.Background())
				So(err, ShouldBeNil)
				_, err = second.ListAgencies(context.Background())
				So(err, ShouldBeNil)
				So(transport.calls, ShouldEqual, 2)
			})
		})
	})
}
