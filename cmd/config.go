package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/git-autometa/internal/config"
	"github.com/dt-pm-tools/git-autometa/internal/jira"
	"github.com/dt-pm-tools/git-autometa/internal/secrets"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure JIRA connection settings",
	Long:  `Interactively set up the JIRA URL, email, and API token. Settings are saved to ~/.git-autometa.yaml; the token goes to the OS keyring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)

		// URL
		defaultURL := existing.Jira.URL
		if defaultURL != "" {
			fmt.Printf("JIRA URL [%s]: ", defaultURL)
		} else {
			fmt.Print("JIRA URL (e.g., https://your-org.atlassian.net): ")
		}
		url, _ := reader.ReadString('\n')
		url = strings.TrimSpace(url)
		if url == "" {
			url = defaultURL
		}

		// Email
		defaultEmail := existing.Jira.Email
		if defaultEmail != "" {
			fmt.Printf("Email [%s]: ", defaultEmail)
		} else {
			fmt.Print("Email: ")
		}
		email, _ := reader.ReadString('\n')
		email = strings.TrimSpace(email)
		if email == "" {
			email = defaultEmail
		}

		// Token (masked input, stored in the keyring rather than the file)
		fmt.Print("API Token (input hidden, empty to keep current): ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		token := strings.TrimSpace(string(tokenBytes))

		cfg := existing
		cfg.Jira.URL = url
		cfg.Jira.Email = email

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if token != "" {
			if err := secrets.SetJiraToken(email, token); err != nil {
				return err
			}
			fmt.Println("Token stored in OS keyring.")

			// Quick connectivity check with the new credentials.
			client := jira.NewClient(url, email, token)
			if err := client.TestConnection(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: JIRA connection test failed: %v\n", err)
			} else {
				fmt.Println("JIRA connection OK.")
			}
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
