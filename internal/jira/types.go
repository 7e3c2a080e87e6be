package jira

import (
	"bytes"
	"encoding/json"
)

// Issue represents a JIRA issue from the REST API v3.
type Issue struct {
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields contains the issue fields we care about.
type Fields struct {
	Summary     string      `json:"summary"`
	Status      Status      `json:"status"`
	IssueType   IssueType   `json:"issuetype"`
	Assignee    *User       `json:"assignee,omitempty"`
	Description Description `json:"description,omitempty"`
}

// Status represents a JIRA status.
type Status struct {
	Name string `json:"name"`
}

// IssueType represents a JIRA issue type.
type IssueType struct {
	Name string `json:"name"`
}

// User represents a JIRA user.
type User struct {
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

// Description holds an issue description in whichever representation the API
// returned: a wiki markup string (API v2), an ADF document tree (API v3), or
// nothing at all. At most one of Text and Doc is set.
type Description struct {
	Text string   // flat wiki markup, when the API returned a string
	Doc  *ADFNode // structured document, when the API returned ADF
}

// UnmarshalJSON accepts a string, an ADF object, or null. Any other shape is
// treated as an absent description rather than failing the whole decode.
func (d *Description) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &d.Text)
	}
	var node ADFNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil
	}
	d.Doc = &node
	return nil
}

// Empty reports whether no description was returned.
func (d Description) Empty() bool {
	return d.Text == "" && d.Doc == nil
}

// ADFNode represents a node in the Atlassian Document Format. A node is
// either a leaf carrying Text or an interior node carrying Content, never
// both.
type ADFNode struct {
	Type    string         `json:"type"`
	Content []ADFNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []ADFMark      `json:"marks,omitempty"`
}

// ADFMark represents an inline formatting mark in ADF.
type ADFMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// SearchResponse wraps the issues array from the JQL search endpoint.
type SearchResponse struct {
	Issues []Issue `json:"issues"`
}
