package jira

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIssue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/PROJ-123", r.URL.Path)
		assert.Equal(t, "summary,status,issuetype,assignee,description", r.URL.Query().Get("fields"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"key": "PROJ-123",
			"fields": {
				"summary": "Fix login bug",
				"status": {"name": "In Progress"},
				"issuetype": {"name": "Bug"},
				"description": "h1. Steps"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "token")
	issue, err := client.GetIssue("proj-123 ")
	require.NoError(t, err)
	assert.Equal(t, "PROJ-123", issue.Key)
	assert.Equal(t, "Fix login bug", issue.Fields.Summary)
	assert.Equal(t, "In Progress", issue.Fields.Status.Name)
	assert.Equal(t, "h1. Steps", issue.Fields.Description.Text)
}

func TestGetIssueADFDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"key": "PROJ-7",
			"fields": {
				"summary": "s",
				"description": {"type": "doc", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "hi"}]}]}
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "token")
	issue, err := client.GetIssue("PROJ-7")
	require.NoError(t, err)
	require.NotNil(t, issue.Fields.Description.Doc)
	assert.Equal(t, "doc", issue.Fields.Description.Doc.Type)
}

func TestGetIssueNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "token")
	_, err := client.GetIssue("PROJ-999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JIRA issue not found: PROJ-999")
}

func TestGetIssueRejectsInvalidKey(t *testing.T) {
	// No request is made for a malformed key.
	client := NewClient("http://127.0.0.1:0", "me@example.com", "token")
	_, err := client.GetIssue("not a key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JIRA issue key format")
}

func TestSearchMyIssues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/search/jql", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "assignee = currentUser() AND statusCategory != Done ORDER BY updated DESC", q.Get("jql"))
		assert.Equal(t, "15", q.Get("maxResults"))
		w.Write([]byte(`{"issues": [{"key": "PROJ-1", "fields": {"summary": "one"}}, {"key": "PROJ-2", "fields": {"summary": "two"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "token")
	issues, err := client.SearchMyIssues(15)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "PROJ-1", issues[0].Key)
	assert.Equal(t, "two", issues[1].Fields.Summary)
}

func TestTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/myself", r.URL.Path)
		w.Write([]byte(`{"accountId": "abc"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "token")
	assert.NoError(t, client.TestConnection())
}

func TestTestConnectionUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "bad-token")
	err := client.TestConnection()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
