package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"taskmanager/internal/infrastructure/logging"
)

func TestLoggingSetsRequestID(t *testing.T) {
	h := Logging(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if _, err := uuid.Parse(rr.Header().Get(RequestIDHeader)); err != nil {
			t.Fatalf("%s = %q, want a uuid", RequestIDHeader, rr.Header().Get(RequestIDHeader))
		}
		if rr.Code != http.StatusTeapot {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusTeapot)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if got := rr.Header().Get(RequestIDHeader); got != id {
			t.Fatalf("%s = %q, want %q", RequestIDHeader, got, id)
		}
	})
}

func TestLoggingKeepsResponseController(t *testing.T) {
	var flushErr error
	h := Logging(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("partial"))
		flushErr = http.NewResponseController(w).Flush()
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if flushErr != nil {
		t.Fatalf("Flush() error = %v", flushErr)
	}
	if !rr.Flushed {
		t.Fatal("underlying writer was not flushed")
	}
}

func TestRecover(t *testing.T) {
	logger := logging.Discard()

	t.Run("before response", func(t *testing.T) {
		h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("body %q is not JSON: %v", rr.Body.String(), err)
		}
		if body["success"] != false {
			t.Fatalf("body = %v", body)
		}
	})

	t.Run("after response started", func(t *testing.T) {
		h := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[{"id":1}`))
			panic("boom")
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want the already written 200", rr.Code)
		}
		if got := rr.Body.String(); got != `[{"id":1}` {
			t.Fatalf("body = %q, want only the handler's bytes", got)
		}
	})
}
