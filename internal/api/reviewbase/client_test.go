package reviewbase

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("http://x", "", "Submissions")
	assert.Error(t, err)
	_, err = NewClient("http://x", "tok", "")
	assert.Error(t, err)
	_, err = NewClient("http://x", "tok", "Submissions")
	assert.NoError(t, err)
}

func TestGetSubmission(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Submissions/rec1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"rec1","fields":{
			"title":"Space Game",
			"authorEmail":"dev@example.com",
			"hackatimeProjectKeys":"game, engine",
			"approved":true,
			"hoursDeclared":12.5,
			"repoUrl":"https://github.com/dev/space-game"
		}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok", "Submissions")
	require.NoError(t, err)

	sub, err := client.GetSubmission(context.Background(), "rec1")
	require.NoError(t, err)
	assert.Equal(t, "Space Game", sub.Title)
	assert.True(t, sub.Approved)
	assert.InDelta(t, 12.5, sub.HoursDeclared, 1e-9)
	assert.Equal(t, []string{"game", "engine"}, sub.DeclaredKeys())
}

func TestGetSubmissionFieldDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"rec2","fields":{"approved":"checked","hoursDeclared":"oops"}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok", "Submissions")
	require.NoError(t, err)

	sub, err := client.GetSubmission(context.Background(), "rec2")
	require.NoError(t, err)
	assert.True(t, sub.Approved, "checkbox string variants are accepted")
	assert.Zero(t, sub.HoursDeclared, "unparseable numbers default to zero")
	assert.Empty(t, sub.AuthorEmail)
}

func TestListSubmissionsByAuthorPaginatesAndSkipsMalformed(t *testing.T) {
	page := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("filterByFormula"), "dev@example.com")
		page++
		if page == 1 {
			w.Write([]byte(`{"records":[
				{"id":"rec1","fields":{"title":"One"}},
				{"id":"","fields":{"title":"Broken"}}
			],"offset":"next"}`))
			return
		}
		assert.Equal(t, "next", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"records":[{"id":"rec3","fields":{"title":"Three"}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok", "Submissions")
	require.NoError(t, err)

	subs, err := client.ListSubmissionsByAuthor(context.Background(), "dev@example.com")
	require.NoError(t, err)
	require.Len(t, subs, 2, "malformed record skipped, both pages consumed")
	assert.Equal(t, "rec1", subs[0].ID)
	assert.Equal(t, "rec3", subs[1].ID)
}

func TestUpdateHours(t *testing.T) {
	var body string
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.Write([]byte(`{"id":"rec1","fields":{}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok", "Submissions")
	require.NoError(t, err)

	err = client.UpdateHours(context.Background(), "rec1", 3.5, "Hackatime: demo: 3.5h")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Contains(t, body, `"hoursDeclared":3.5`)
	assert.Contains(t, body, "Hackatime: demo: 3.5h")
}

func TestServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok", "Submissions")
	require.NoError(t, err)

	_, err = client.GetSubmission(context.Background(), "rec1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
