package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T, method, path string, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method || r.URL.Path != path {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
			return
		}
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAdd(t *testing.T) {
	srv := fakeAPI(t, http.MethodPost, "/api/entries", http.StatusCreated,
		`{"id":"abc","sentiment":"7.15","affirmation":"Even your hair is great today!","result":"New journal entry added!"}`,
		func(r *http.Request) {
			var req map[string]string
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req["body"] != "great day" {
				t.Errorf("unexpected body %v (%v)", req, err)
			}
		})

	var out bytes.Buffer
	require.NoError(t, runAdd(newClient(srv.URL, time.Second), "great day", &out))
	assert.Equal(t, "New journal entry added! (id abc, sentiment 7.15)\nEven your hair is great today!\n", out.String())
}

func TestRunAdd_ServerMessage(t *testing.T) {
	srv := fakeAPI(t, http.MethodPost, "/api/entries", http.StatusBadRequest,
		`{"error":"Bad Request","code":400,"message":"Error: We could not save this entry. Please ensure there is text in the journal entry."}`, nil)

	err := runAdd(newClient(srv.URL, time.Second), " ", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please ensure there is text")
}

func TestRunList(t *testing.T) {
	srv := fakeAPI(t, http.MethodGet, "/api/entries", http.StatusOK,
		`{"entries":[{"id":"a","body":"frog","sentiment":null,"timestamp":"01/05/2024 09:00:00"},{"id":"b","body":"yay","sentiment":"9.10","timestamp":"02/05/2024 09:00:00"}],"count":2}`, nil)

	var out bytes.Buffer
	require.NoError(t, runList(newClient(srv.URL, time.Second), &out))
	assert.Equal(t, "a\t01/05/2024 09:00:00\t-\tfrog\nb\t02/05/2024 09:00:00\t9.10\tyay\n2 entries\n", out.String())
}

func TestRunGetAndEdit(t *testing.T) {
	srv := fakeAPI(t, http.MethodGet, "/api/entries/a", http.StatusOK,
		`{"id":"a","body":"frog","sentiment":null,"timestamp":"01/05/2024 09:00:00"}`, nil)
	var out bytes.Buffer
	require.NoError(t, runGet(newClient(srv.URL, time.Second), "a", &out))
	assert.Contains(t, out.String(), "Sentiment: -")

	srv = fakeAPI(t, http.MethodPut, "/api/entries/a", http.StatusOK,
		`{"id":"a","body":"toad","sentiment":"5.00","timestamp":"01/05/2024 09:00:00","last_timestamp":"01/05/2024 10:00:00"}`, nil)
	out.Reset()
	require.NoError(t, runEdit(newClient(srv.URL, time.Second), "a", "toad", &out))
	assert.Contains(t, out.String(), "Edited:    01/05/2024 10:00:00")
}

func TestRunGet_NotFound(t *testing.T) {
	srv := fakeAPI(t, http.MethodGet, "/api/entries/zzz", http.StatusNotFound,
		`{"error":"Not Found","code":404,"message":"Entry not found"}`, nil)
	err := runGet(newClient(srv.URL, time.Second), "zzz", &bytes.Buffer{})
	assert.EqualError(t, err, "http 404: Entry not found")
}

func TestRunDelete(t *testing.T) {
	srv := fakeAPI(t, http.MethodDelete, "/api/entries/a", http.StatusNoContent, ``, nil)
	var out bytes.Buffer
	require.NoError(t, runDelete(newClient(srv.URL, time.Second), "a", &out))
	assert.Equal(t, "deleted a\n", out.String())
}

func TestRunMood(t *testing.T) {
	srv := fakeAPI(t, http.MethodGet, "/api/mood", http.StatusOK,
		`{"lowest":{"text":"Your lowest moments were:\n1. Timestamp: t, Sentiment: 2.43\n"},"highest":{"text":"Your highest moments were:\n"},"average":{"text":"No valid sentiment scores to display"}}`, nil)
	var out bytes.Buffer
	require.NoError(t, runMood(newClient(srv.URL, time.Second), &out))
	assert.Equal(t, "Your lowest moments were:\n1. Timestamp: t, Sentiment: 2.43\n\nYour highest moments were:\n\nNo valid sentiment scores to display\n", out.String())
}
