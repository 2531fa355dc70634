package users

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/crucial707/ems-inventory/cmd/cli/client"
	"github.com/crucial707/ems-inventory/cmd/cli/output"
	"github.com/spf13/cobra"
)

// user mirrors the API's user representation. The encrypted password is never
// returned by the API.
type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		viewUserCmd(),
		createUserCmd(),
		setRoleCmd(),
		deleteUserCmd(),
	)

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your own account",
	}

	accountCmd.AddCommand(
		selfChangeCmd("passwd", "Change your password", "/me/password", "new password"),
		selfChangeCmd("rename", "Change your username", "/me/username", "new username"),
		selfChangeCmd("email", "Change your email address", "/me/email", "new email"),
	)

	rootCmd.AddCommand(usersCmd, accountCmd)
}

func userPath(username string) string {
	return "/users/" + url.PathEscape(username)
}

// ==========================
// LIST / VIEW
// ==========================
func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []user
			if err := client.DoJSON(http.MethodGet, "/users/", nil, true, &users); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Role, u.Email})
			}
			output.RenderTable([]string{"ID", "Username", "Role", "Email"}, rows)
			return nil
		},
	}
}

func viewUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [username]",
		Short: "View one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u user
			if err := client.DoJSON(http.MethodGet, userPath(args[0]), nil, true, &u); err != nil {
				return err
			}
			b, _ := json.MarshalIndent(u, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createUserCmd() *cobra.Command {

	var username, password, role, email string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create user",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"username": username,
				"password": password,
				"role":     role,
				"email":    email,
			}

			var u user
			if err := client.DoJSON(http.MethodPost, "/users/", payload, true, &u); err != nil {
				return err
			}
			fmt.Printf("User %s created with role %s\n", u.Username, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", "", "role")
	cmd.Flags().StringVar(&email, "email", "", "email address")

	return cmd
}

// ==========================
// SET ROLE / DELETE
// ==========================
func setRoleCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "set-role [username]",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"role": role}
			if err := client.DoJSON(http.MethodPut, userPath(args[0])+"/role", payload, true, nil); err != nil {
				return err
			}
			fmt.Println("Role updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "new role")
	return cmd
}

func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [username]",
		Short: "Delete user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DoJSON(http.MethodDelete, userPath(args[0]), nil, true, nil); err != nil {
				return err
			}
			fmt.Println("User deleted")
			return nil
		},
	}
}

// ==========================
// Self-service account changes
// ==========================

// selfChangeCmd builds one of the account commands. All three endpoints take
// the same re-authentication payload: current password, new value, confirm.
func selfChangeCmd(use, short, path, valueLabel string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var current, newValue, confirm string
			fmt.Print("Current password: ")
			fmt.Scanln(&current)
			fmt.Printf("Enter %s: ", valueLabel)
			fmt.Scanln(&newValue)
			fmt.Printf("Confirm %s: ", valueLabel)
			fmt.Scanln(&confirm)

			payload := map[string]string{
				"current_password": current,
				"new_value":        newValue,
				"confirm":          confirm,
			}
			if err := client.DoJSON(http.MethodPut, path, payload, true, nil); err != nil {
				return err
			}
			fmt.Println("Account updated")
			if use == "rename" {
				fmt.Println("Your token is now stale; run 'ems login' again.")
			}
			return nil
		},
	}
}
