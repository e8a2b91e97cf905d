package transport_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tapoctl/internal/transport"
)

func TestPost_HeadersInAndOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("want POST, got %s", r.Method)
		}
		if got := r.Header.Get("Cookie"); got != "TP_SESSIONID=abc" {
			t.Errorf("cookie header: got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type: got %q", got)
		}
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Set-Cookie", "TP_SESSIONID=xyz;TIMEOUT=1440")
		_, _ = w.Write([]byte(strings.ToUpper(string(b))))
	}))
	defer srv.Close()

	tr := transport.NewHTTP(time.Second, zerolog.Nop())
	body, hdr, err := tr.Post(context.Background(), srv.URL+"/app", []byte(`{"a":1}`),
		http.Header{"Cookie": []string{"TP_SESSIONID=abc"}})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if string(body) != `{"A":1}` {
		t.Fatalf("body: got %s", body)
	}
	if hdr.Get("Set-Cookie") != "TP_SESSIONID=xyz;TIMEOUT=1440" {
		t.Fatalf("set-cookie: got %q", hdr.Get("Set-Cookie"))
	}
}

func TestPost_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := transport.NewHTTP(time.Second, zerolog.Nop())
	if _, _, err := tr.Post(context.Background(), srv.URL, nil, nil); err == nil {
		t.Fatal("expected error for 500")
	}
}

func TestPost_BodySizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		size := transport.MaxBody
		if r.URL.Path == "/big" {
			size++
		}
		_, _ = w.Write(bytes.Repeat([]byte("a"), size))
	}))
	defer srv.Close()
	tr := transport.NewHTTP(time.Second, zerolog.Nop())

	body, _, err := tr.Post(context.Background(), srv.URL, nil, nil)
	if err != nil || len(body) != transport.MaxBody {
		t.Fatalf("body at limit: %d bytes, err %v", len(body), err)
	}

	if _, _, err := tr.Post(context.Background(), srv.URL+"/big", nil, nil); !errors.Is(err, transport.ErrResponseTooLarge) {
		t.Fatalf("want ErrResponseTooLarge, got %v", err)
	}
}

func TestPost_HonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	tr := transport.NewHTTP(time.Minute, zerolog.Nop())
	if _, _, err := tr.Post(ctx, srv.URL, nil, nil); err == nil {
		t.Fatal("expected deadline error")
	}
}
