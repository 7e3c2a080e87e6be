package secrets

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

// All secrets live under one keyring service; keys within it are namespaced
// by kind (e.g. "jira:<email>").
const serviceName = "git-autometa"

func jiraKey(email string) string {
	return "jira:" + email
}

// GetJiraToken retrieves the JIRA API token stored for the given email.
func GetJiraToken(email string) (string, error) {
	token, err := keyring.Get(serviceName, jiraKey(email))
	if err != nil {
		return "", fmt.Errorf("reading JIRA token from keyring: %w", err)
	}
	return token, nil
}

// SetJiraToken stores the JIRA API token for the given email.
func SetJiraToken(email, token string) error {
	if token == "" {
		return fmt.Errorf("refusing to store an empty JIRA token")
	}
	if err := keyring.Set(serviceName, jiraKey(email), token); err != nil {
		return fmt.Errorf("storing JIRA token in keyring: %w", err)
	}
	return nil
}
