package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmgate/internal/testutil"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondJSON(w, map[string]string{"status": "ok"})

	testutil.AssertEqual(t, w.Code, http.StatusOK)
	testutil.AssertEqual(t, w.Header().Get("Content-Type"), "application/json")
	got := testutil.UnmarshalJSON[map[string]string](t, w.Body.Bytes())
	testutil.AssertEqual(t, got, map[string]string{"status": "ok"})
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err      error
		wantCode int
	}{
		"bad request":     {err: ErrBadRequest, wantCode: http.StatusBadRequest},
		"not found":       {err: ErrNotFound, wantCode: http.StatusNotFound},
		"wrapped":         {err: fmt.Errorf("resource %w", ErrNotFound), wantCode: http.StatusNotFound},
		"plain error":     {err: fmt.Errorf("boom"), wantCode: http.StatusInternalServerError},
		"internal server": {err: ErrInternalServerError, wantCode: http.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			RespondJSONError(t.Logf, w, tc.err)

			testutil.AssertEqual(t, w.Code, tc.wantCode)
			got := testutil.UnmarshalJSON[errorResponse](t, w.Body.Bytes())
			testutil.AssertEqual(t, got, errorResponse{Status: "error", Error: tc.err.Error()})
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	h := Health(mux)

	// Repeated calls return the same handler instead of re-registering.
	testutil.AssertEqual(t, Health(mux) == h, true)

	h.RegisterFunc("good", func() (string, bool) { return "all fine", true })

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	testutil.AssertEqual(t, w.Code, http.StatusOK)
	got := testutil.UnmarshalJSON[HealthResponse](t, w.Body.Bytes())
	testutil.AssertEqual(t, got, HealthResponse{
		OK:     true,
		Checks: map[string]CheckResponse{"good": {Status: "all fine", OK: true}},
	})

	h.RegisterFunc("bad", func() (string, bool) { return "on fire", false })

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	testutil.AssertEqual(t, w.Code, http.StatusInternalServerError)
	got = testutil.UnmarshalJSON[HealthResponse](t, w.Body.Bytes())
	testutil.AssertEqual(t, got.OK, false)
}

func TestListenAndServeConfigValidation(t *testing.T) {
	t.Parallel()

	if err := ListenAndServe(t.Context(), &ListenAndServeConfig{
		Mux:  http.NewServeMux(),
		Logf: t.Logf,
	}); !errors.Is(err, errNoAddr) {
		t.Fatalf("got %v, want errNoAddr", err)
	}

	if err := ListenAndServe(t.Context(), &ListenAndServeConfig{
		Addr: "localhost:0",
		Logf: t.Logf,
	}); !errors.Is(err, errNilMux) {
		t.Fatalf("got %v, want errNilMux", err)
	}
}

func TestListenAndServeGracefulShutdown(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())

	err := ListenAndServe(ctx, &ListenAndServeConfig{
		Addr:  "localhost:0",
		Mux:   http.NewServeMux(),
		Logf:  t.Logf,
		Ready: cancel,
	})
	if err != nil {
		t.Fatal(err)
	}
}
