package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newUsersCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect system users",
	}

	cmd.AddCommand(newUsersListCmd(opts))
	cmd.AddCommand(newUsersSelfCmd(opts))
	return cmd
}

func newUsersListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all system users (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return apiGet(opts, "/v1/users")
		},
	}
}

func newUsersSelfCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "self",
		Short: "Show the system user record for the current token",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return apiGet(opts, "/v1/users/self")
		},
	}
}

// apiGet performs an authenticated GET and pretty-prints the JSON response.
func apiGet(opts *globalOptions, path string) error {
	if opts.token == "" {
		return fmt.Errorf("no token configured: run 'trackerctl auth token' or pass --token")
	}

	req, err := http.NewRequest(http.MethodGet, opts.host+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+opts.token)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %s", resp.Status, string(body))
	}

	var pretty interface{}
	if err := json.Unmarshal(body, &pretty); err != nil {
		_, _ = os.Stdout.Write(body)
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(pretty)
}
