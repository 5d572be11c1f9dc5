package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"symptom-triage-server/internal/models"
	"symptom-triage-server/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triageCount(t *testing.T, app *testApp) int64 {
	t.Helper()
	var count int64
	require.NoError(t, app.db.Model(&models.TriageSession{}).Count(&count).Error)
	return count
}

func analyze(t *testing.T, app *testApp, token string, body gin.H) string {
	t.Helper()
	w := app.request(http.MethodPost, "/api/triage/analyze", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		SessionID string `json:"sessionId"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestAnalyzeRequiresSession(t *testing.T) {
	app := newTestApp(t)

	w := app.request(http.MethodPost, "/api/triage/analyze", "", gin.H{"symptoms": "headache"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.EqualValues(t, 0, triageCount(t, app))
}

func TestAnalyzeRejectsEmptySymptoms(t *testing.T) {
	app := newTestApp(t)
	_, token := app.guest()

	for _, body := range []gin.H{
		{"symptoms": ""},
		{"symptoms": "   "},
		{"symptoms": " ", "quickTriageTypes": []string{" ", ""}},
	} {
		w := app.request(http.MethodPost, "/api/triage/analyze", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.EqualValues(t, 0, triageCount(t, app))
}

func TestAnalyzeAsGuest(t *testing.T) {
	app := newTestApp(t)
	_, token := app.guest()

	sessionID := analyze(t, app, token, gin.H{"symptoms": "headache, 2 days"})

	var ts models.TriageSession
	require.NoError(t, app.db.First(&ts, "id = ?", sessionID).Error)
	assert.Nil(t, ts.UserID)
	assert.True(t, ts.IsGuest)
	assert.Equal(t, models.RiskLow, ts.RiskLevel)
	assert.Equal(t, models.PriorityP4, ts.Priority)
	assert.Equal(t, "headache, 2 days", ts.Symptoms)
}

func TestAnalyzeAsAuthenticatedUser(t *testing.T) {
	app := newTestApp(t)
	userID, token := app.signup("a@x.com")

	sessionID := analyze(t, app, token, gin.H{"symptoms": "fever and chills"})

	var ts models.TriageSession
	require.NoError(t, app.db.First(&ts, "id = ?", sessionID).Error)
	require.NotNil(t, ts.UserID)
	assert.Equal(t, userID, *ts.UserID)
	assert.False(t, ts.IsGuest)
}

func TestAnalyzeQuickTagsOnly(t *testing.T) {
	app := newTestApp(t)
	_, token := app.guest()

	sessionID := analyze(t, app, token, gin.H{
		"quickTriageTypes": []string{"headache", "fever"},
	})

	// Tags alone are a valid submission; they form the classifier input
	assert.Equal(t, "headache. fever", app.ai.lastDescription)

	var ts models.TriageSession
	require.NoError(t, app.db.First(&ts, "id = ?", sessionID).Error)
	assert.Equal(t, []string{"headache", "fever"}, ts.TagList())
}

func TestAnalyzeClassifierFailure(t *testing.T) {
	app := newTestApp(t)
	_, token := app.guest()
	app.ai.err = fmt.Errorf("%w: upstream status 503", triage.ErrAnalysisFailed)

	w := app.request(http.MethodPost, "/api/triage/analyze", token, gin.H{"symptoms": "headache"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// No partial session may survive a failed analysis
	assert.EqualValues(t, 0, triageCount(t, app))
}

func TestAnalyzeContractViolation(t *testing.T) {
	app := newTestApp(t)
	_, token := app.guest()
	app.ai.err = fmt.Errorf("%w: unknown risk level %q", triage.ErrUpstreamContract, "catastrophic")

	w := app.request(http.MethodPost, "/api/triage/analyze", token, gin.H{"symptoms": "headache"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "invalid result")
	assert.EqualValues(t, 0, triageCount(t, app))
}

func TestGetSessionGuestOpenByID(t *testing.T) {
	app := newTestApp(t)
	_, token := app.guest()

	sessionID := analyze(t, app, token, gin.H{"symptoms": "headache"})

	// Guest sessions have no owner; the id is the only handle
	w := app.request(http.MethodGet, "/api/triage/session/"+sessionID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.TriageSessionView
	decode(t, w, &view)
	assert.Equal(t, sessionID, view.ID)
	assert.True(t, view.IsGuest)
}

func TestGetSessionOwnedRequiresOwner(t *testing.T) {
	app := newTestApp(t)
	_, ownerToken := app.signup("owner@x.com")
	_, otherToken := app.signup("other@x.com")

	sessionID := analyze(t, app, ownerToken, gin.H{"symptoms": "chest pain"})

	// Anonymous and non-owner callers both get a 404, not a 403
	w := app.request(http.MethodGet, "/api/triage/session/"+sessionID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.request(http.MethodGet, "/api/triage/session/"+sessionID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.request(http.MethodGet, "/api/triage/session/"+sessionID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetSessionUnknownID(t *testing.T) {
	app := newTestApp(t)

	w := app.request(http.MethodGet, "/api/triage/session/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.request(http.MethodGet, "/api/triage/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Guests may analyze but never list history
	_, guestToken := app.guest()
	analyze(t, app, guestToken, gin.H{"symptoms": "headache, 2 days"})
	w = app.request(http.MethodGet, "/api/triage/history", guestToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistoryScopedToOwner(t *testing.T) {
	app := newTestApp(t)
	_, aliceToken := app.signup("alice@x.com")
	_, bobToken := app.signup("bob@x.com")
	_, guestToken := app.guest()

	aliceFirst := analyze(t, app, aliceToken, gin.H{"symptoms": "sore throat"})
	aliceSecond := analyze(t, app, aliceToken, gin.H{"symptoms": "sore throat, now with fever"})
	analyze(t, app, bobToken, gin.H{"symptoms": "back pain"})
	analyze(t, app, guestToken, gin.H{"symptoms": "cough"})

	w := app.request(http.MethodGet, "/api/triage/history", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []models.TriageSessionView
	decode(t, w, &views)
	require.Len(t, views, 2)

	ids := []string{views[0].ID, views[1].ID}
	assert.ElementsMatch(t, []string{aliceFirst, aliceSecond}, ids)
}
