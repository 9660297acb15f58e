package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// newFakeBackend stands up the endpoints the client talks to, enforcing the
// real contract: bearer auth everywhere except registration, login, and the
// exercise catalog; multipart bodies for login and upload.
func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()

	requireAuth := func(w http.ResponseWriter, req *http.Request) bool {
		if req.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return false
		}
		return true
	}
	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	r.HandleFunc("/auth/register", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		if body.Email == "taken@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"detail": "Email already registered"})
			return
		}
		writeJSON(w, map[string]string{"message": "ok"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/auth/token", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(1<<20))
		if req.FormValue("username") != "maya" || req.FormValue("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, map[string]string{"access_token": testToken, "token_type": "bearer"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/get-sessions/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		writeJSON(w, []Session{{ID: 1, Date: "2026-08-30T07:00:00", PoseName: "Tree Pose", AccuracyScore: 91.5}})
	}).Methods(http.MethodGet)

	r.HandleFunc("/analyze-session/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		file, header, err := req.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		payload, err := io.ReadAll(file)
		require.NoError(t, err)

		if header.Filename == "flow.mp4" {
			assert.Equal(t, "clipdata", string(payload))
			writeJSON(w, map[string]interface{}{
				"results": []map[string]interface{}{
					{"pose": "Warrior II", "accuracy": 88.0, "duration": 30.0},
					{"pose": "Tree Pose", "accuracy": 95.0, "duration": 20.0},
				},
			})
			return
		}
		writeJSON(w, map[string]interface{}{
			"pose": "Tree Pose", "accuracy": 92.0, "duration": 15.0,
			"confidence_score": 0.97, "feedback": "Steady roots.",
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/feedback/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		var body struct {
			SessionID    int    `json:"sessionId"`
			FeedbackText string `json:"feedback_text"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, 7, body.SessionID)
		assert.Equal(t, "felt strong", body.FeedbackText)
		writeJSON(w, map[string]string{"message": "ok"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/get-streak/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		writeJSON(w, map[string]int{"streak": 4})
	}).Methods(http.MethodGet)

	r.HandleFunc("/get-journal-entries/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		score := 0.93
		writeJSON(w, []JournalEntry{{ID: 2, EntryText: "[Calm] Good flow", Sentiment: "POSITIVE", SentimentScore: &score}})
	}).Methods(http.MethodGet)

	r.HandleFunc("/add-journal-entry/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		var body struct {
			Entry string `json:"entry"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "[Grateful] deep stretch today", body.Entry)
		writeJSON(w, map[string]string{"message": "ok"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/chat-gemini/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		var body struct {
			ChatID   string        `json:"chat_id"`
			Messages []ChatMessage `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "chat-1", body.ChatID)
		require.NotEmpty(t, body.Messages)
		assert.Equal(t, RoleUser, body.Messages[len(body.Messages)-1].Role)
		writeJSON(w, map[string]string{"reply": "Breathe into the stretch."})
	}).Methods(http.MethodPost)

	r.HandleFunc("/ask-gemini/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "how long to hold tree pose?", body.Query)
		writeJSON(w, map[string]string{"response": "About one minute per side."})
	}).Methods(http.MethodPost)

	r.HandleFunc("/end-chat/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		var body struct {
			ChatID string `json:"chat_id"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "chat-1", body.ChatID)
		writeJSON(w, map[string]string{"message": "ok"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/get-coach-history/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		writeJSON(w, []ChatRecord{{ID: 1, UserQuery: "help me relax", BotResponse: "Try a slow flow.", CreatedDate: "2026-08-29T20:00:00"}})
	}).Methods(http.MethodGet)

	r.HandleFunc("/get-chats/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		writeJSON(w, []ChatRecord{{ID: 1, UserQuery: "help me relax", Date: "2026-08-29"}})
	}).Methods(http.MethodGet)

	r.HandleFunc("/approve-plan/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		var body struct {
			Plans []PlanItem `json:"plans"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Len(t, body.Plans, 1)
		assert.Equal(t, "Warrior Flow", body.Plans[0].Title)
		writeJSON(w, map[string]string{"message": "ok"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/get-calendar/", func(w http.ResponseWriter, req *http.Request) {
		if !requireAuth(w, req) {
			return
		}
		writeJSON(w, CalendarData{
			Sessions: []CalendarSession{{Date: "2026-08-28T06:30:00", PoseName: "Tree Pose"}},
			Plans:    []CalendarPlan{{PlannedDate: "2026-09-02", Title: "Morning Flow"}},
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/get-exercises/", func(w http.ResponseWriter, req *http.Request) {
		// The catalog is public; a stray auth header is a client bug.
		assert.Empty(t, req.Header.Get("Authorization"))
		writeJSON(w, []Exercise{{ID: "tree", Name: "Tree Pose", Category: "Balance"}})
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *Client {
	srv := newFakeBackend(t)
	return New(srv.URL, func() string { return testToken })
}

func TestTokenExchange(t *testing.T) {
	srv := newFakeBackend(t)
	c := New(srv.URL, nil)

	token, err := c.Token(context.Background(), "maya", "secret")
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
}

func TestTokenExchangeBadCredentials(t *testing.T) {
	srv := newFakeBackend(t)
	c := New(srv.URL, nil)

	_, err := c.Token(context.Background(), "maya", "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Incorrect username or password", apiErr.Detail)
}

func TestRegister(t *testing.T) {
	srv := newFakeBackend(t)
	c := New(srv.URL, nil)

	require.NoError(t, c.Register(context.Background(), "maya", "maya@example.com", "secret"))

	err := c.Register(context.Background(), "maya", "taken@example.com", "secret")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email already registered", apiErr.Detail)
}

func TestAuthenticatedCallWithoutTokenShortCircuits(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requests++
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "" })
	_, err := c.Sessions(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Zero(t, requests, "no request should leave the client without a token")
}

func TestSessionsCarriesBearerToken(t *testing.T) {
	c := newTestClient(t)

	sessions, err := c.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Tree Pose", sessions[0].PoseName)
}

func TestAnalyzeSessionSingleResult(t *testing.T) {
	c := newTestClient(t)

	outcome, err := c.AnalyzeSession(context.Background(), "pose.jpg", strings.NewReader("imagedata"))
	require.NoError(t, err)
	assert.False(t, outcome.Multi)
	require.Len(t, outcome.Results(), 1)
	assert.Equal(t, "Tree Pose", outcome.Results()[0].Pose)
	assert.InDelta(t, 0.97, outcome.Results()[0].ConfidenceScore, 1e-9)
}

func TestAnalyzeSessionMultiResult(t *testing.T) {
	c := newTestClient(t)

	outcome, err := c.AnalyzeSession(context.Background(), "flow.mp4", strings.NewReader("clipdata"))
	require.NoError(t, err)
	assert.True(t, outcome.Multi)
	require.Len(t, outcome.Results(), 2)
	assert.Equal(t, "Warrior II", outcome.Results()[0].Pose)
}

func TestSubmitFeedback(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.SubmitFeedback(context.Background(), 7, "felt strong"))
}

func TestStreak(t *testing.T) {
	c := newTestClient(t)

	streak, err := c.Streak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, streak)
}

func TestJournalEntries(t *testing.T) {
	c := newTestClient(t)

	entries, err := c.JournalEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "POSITIVE", entries[0].Sentiment)
	require.NotNil(t, entries[0].SentimentScore)
	assert.InDelta(t, 0.93, *entries[0].SentimentScore, 1e-9)
}

func TestAddJournalEntry(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.AddJournalEntry(context.Background(), "[Grateful] deep stretch today"))
}

func TestChat(t *testing.T) {
	c := newTestClient(t)

	reply, err := c.Chat(context.Background(), "chat-1", []ChatMessage{
		{Role: RoleUser, Content: "my back hurts"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Breathe into the stretch.", reply)
}

func TestAsk(t *testing.T) {
	c := newTestClient(t)

	response, err := c.Ask(context.Background(), "how long to hold tree pose?")
	require.NoError(t, err)
	assert.Equal(t, "About one minute per side.", response)
}

func TestEndChat(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.EndChat(context.Background(), "chat-1"))
}

func TestCoachHistory(t *testing.T) {
	c := newTestClient(t)

	records, err := c.CoachHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "help me relax", records[0].UserQuery)
	assert.Equal(t, "2026-08-29T20:00:00", records[0].When())
}

func TestChatsAlternateMount(t *testing.T) {
	c := newTestClient(t)

	records, err := c.Chats(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08-29", records[0].When(), "Date backs When on this mount")
}

func TestApprovePlan(t *testing.T) {
	c := newTestClient(t)
	err := c.ApprovePlan(context.Background(), []PlanItem{
		{Title: "Warrior Flow", PlannedDate: "2026-09-03"},
	})
	require.NoError(t, err)
}

func TestCalendar(t *testing.T) {
	c := newTestClient(t)

	data, err := c.Calendar(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Sessions, 1)
	require.Len(t, data.Plans, 1)
	assert.Equal(t, "Morning Flow", data.Plans[0].Title)
}

func TestExercisesIsUnauthenticated(t *testing.T) {
	c := newTestClient(t)

	exercises, err := c.Exercises(context.Background())
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "Balance", exercises[0].Category)
}

func TestDecodeErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return testToken })
	_, err := c.Streak(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Detail)
}

func TestUnreachableBackendIsNotAnAPIError(t *testing.T) {
	c := New("http://127.0.0.1:1", func() string { return testToken })

	_, err := c.Sessions(context.Background())
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestAnalysisOutcomeDecoding(t *testing.T) {
	var single AnalysisOutcome
	require.NoError(t, json.Unmarshal([]byte(`{"pose":"Tree Pose","accuracy":90}`), &single))
	assert.False(t, single.Multi)
	require.Len(t, single.Results(), 1)

	var multi AnalysisOutcome
	require.NoError(t, json.Unmarshal([]byte(`{"results":[{"pose":"A"},{"pose":"B"}]}`), &multi))
	assert.True(t, multi.Multi)
	assert.Len(t, multi.Results(), 2)

	// An empty results array is still the multi shape.
	var empty AnalysisOutcome
	require.NoError(t, json.Unmarshal([]byte(`{"results":[]}`), &empty))
	assert.True(t, empty.Multi)
	assert.Len(t, empty.Results(), 0)
}

func TestAvgSummaryAccuracy(t *testing.T) {
	s := Session{
		AccuracyScore: 50,
		Summary: []PoseSummary{
			{Pose: "Tree Pose", AvgAccuracy: 80},
			{Pose: "Warrior II", AvgAccuracy: 90},
		},
	}
	assert.InDelta(t, 85, s.AvgSummaryAccuracy(), 1e-9)

	bare := Session{AccuracyScore: 50}
	assert.InDelta(t, 50, bare.AvgSummaryAccuracy(), 1e-9)
}
