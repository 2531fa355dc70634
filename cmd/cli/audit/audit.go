package audit

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/crucial707/ems-inventory/cmd/cli/client"
	"github.com/crucial707/ems-inventory/cmd/cli/output"
	"github.com/spf13/cobra"
)

type entry struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	UpdatedObject string    `json:"updated_object"`
	ActionType    string    `json:"action_type"`
	Details       string    `json:"details"`
	Timestamp     time.Time `json:"timestamp"`
}

// ==========================
// Init Audit
// ==========================
func InitAudit(rootCmd *cobra.Command) {

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit log (Admin)",
	}

	auditCmd.AddCommand(recentCmd(), exportCmd())
	rootCmd.AddCommand(auditCmd)
}

func recentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recent audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []entry
			path := fmt.Sprintf("/audit/?limit=%d", limit)
			if err := client.DoJSON(http.MethodGet, path, nil, true, &entries); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{
					e.ID, e.Username, e.UpdatedObject, e.ActionType, e.Details,
					e.Timestamp.Format(time.RFC3339),
				})
			}
			output.RenderTable([]string{"ID", "User", "Object", "Action", "Details", "Time"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full audit log as plain text",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := client.Do(http.MethodGet, "/audit/export", nil, true)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("status %d: %s", status, string(body))
			}

			if out == "" {
				fmt.Print(string(body))
				return nil
			}
			if err := os.WriteFile(out, body, 0644); err != nil {
				return err
			}
			fmt.Printf("Audit log written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write to file instead of stdout")
	return cmd
}
