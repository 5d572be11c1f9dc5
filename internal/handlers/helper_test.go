package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"symptom-triage-server/internal/config"
	"symptom-triage-server/internal/middleware"
	"symptom-triage-server/internal/models"
	"symptom-triage-server/internal/routes"
	"symptom-triage-server/internal/session"
	"symptom-triage-server/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stubClassifier stands in for the AI call the way the real client stands
// behind the Classifier interface.
type stubClassifier struct {
	analysis        *triage.Analysis
	err             error
	lastDescription string
}

func (s *stubClassifier) Analyze(ctx context.Context, description string) (*triage.Analysis, error) {
	s.lastDescription = description
	if s.err != nil {
		return nil, s.err
	}
	out := *s.analysis
	return &out, nil
}

func defaultAnalysis() *triage.Analysis {
	return &triage.Analysis{
		RiskLevel:          models.RiskLow,
		Priority:           models.PriorityP4,
		Recommendations:    "Rest and stay hydrated",
		PossibleCauses:     "Tension headache",
		ExpectedConditions: "Headache, mild dehydration",
		ActionRequired:     "Self-care at home",
	}
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	ai     *stubClassifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// One shared in-memory database per test, named after the test so
	// parallel packages cannot collide.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.InitDB(models.DatabaseConfig{SQLitePath: dsn})
	require.NoError(t, err)

	cfg := &config.Config{Environment: "development", SessionTTLHours: 1}
	store := session.NewMemoryStore(time.Hour)
	ai := &stubClassifier{analysis: defaultAnalysis()}

	router := gin.New()
	routes.SetupRoutes(router, db, cfg, store, ai, zap.NewNop())

	return &testApp{t: t, router: router, db: db, ai: ai}
}

// request performs one JSON request against the in-process router. An
// empty token sends no session cookie.
func (a *testApp) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// sessionToken pulls the session cookie set by an auth response.
func sessionToken(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie.Value
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}

// signup registers a user and returns the user id and session token.
func (a *testApp) signup(email string) (string, string) {
	a.t.Helper()
	w := a.request(http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":     email,
		"password":  "abcdef",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		ID string `json:"id"`
	}
	decode(a.t, w, &body)
	require.NotEmpty(a.t, body.ID)
	return body.ID, sessionToken(a.t, w)
}

// guest opens a guest session and returns the guest id and session token.
func (a *testApp) guest() (string, string) {
	a.t.Helper()
	w := a.request(http.MethodPost, "/api/auth/guest", "", nil)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		ID      string `json:"id"`
		IsGuest bool   `json:"isGuest"`
	}
	decode(a.t, w, &body)
	require.True(a.t, body.IsGuest)
	require.NotEmpty(a.t, body.ID)
	return body.ID, sessionToken(a.t, w)
}
