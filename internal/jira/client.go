package jira

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var issueKeyRe = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)

// Client is a JIRA REST API v3 client.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a new JIRA client for the given server, authenticating
// with the email/token pair as basic auth.
func NewClient(baseURL, email, token string) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(email + ":" + token))
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + creds,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the server base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetIssue fetches a single issue by key.
func (c *Client) GetIssue(key string) (*Issue, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if !issueKeyRe.MatchString(key) {
		return nil, fmt.Errorf("invalid JIRA issue key format: %s", key)
	}

	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?fields=summary,status,issuetype,assignee,description", c.baseURL, key)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("JIRA issue not found: %s", key)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("JIRA API returned %d: %s", resp.StatusCode, string(body))
	}

	var issue Issue
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &issue, nil
}

// SearchMyIssues returns up to limit open issues assigned to the
// authenticated user, most recently updated first.
func (c *Client) SearchMyIssues(limit int) ([]Issue, error) {
	params := url.Values{}
	params.Set("jql", "assignee = currentUser() AND statusCategory != Done ORDER BY updated DESC")
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	params.Set("fields", "summary,status,issuetype,assignee,description")

	endpoint := fmt.Sprintf("%s/rest/api/3/search/jql?%s", c.baseURL, params.Encode())

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("JIRA API returned %d: %s", resp.StatusCode, string(body))
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return result.Issues, nil
}

// TestConnection verifies credentials against the /myself endpoint.
func (c *Client) TestConnection() error {
	req, err := http.NewRequest("GET", c.baseURL+"/rest/api/3/myself", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("JIRA API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
