package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestJWTService(t)
	orgID := uuid.New()
	token, err := svc.GenerateToken(Subject{UserID: uuid.New(), OrganizationID: orgID})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var seenOrg uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			seenOrg = claims.OrganizationID
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handler := HTTPMiddleware(svc, []string{"/healthz", "/metrics"})(next)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{name: "skipped path", path: "/healthz", wantStatus: http.StatusNoContent},
		{name: "missing header", path: "/api/v1/loans", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", path: "/api/v1/loans", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "valid token", path: "/api/v1/loans", header: "Bearer " + token, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate header on 401")
			}
		})
	}

	if seenOrg != orgID {
		t.Errorf("claims not propagated: got org %v, want %v", seenOrg, orgID)
	}
}
