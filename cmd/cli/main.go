package main

import (
	"fmt"
	"os"

	"github.com/crucial707/ems-inventory/cmd/cli/alerts"
	"github.com/crucial707/ems-inventory/cmd/cli/audit"
	"github.com/crucial707/ems-inventory/cmd/cli/auth"
	"github.com/crucial707/ems-inventory/cmd/cli/inventory"
	"github.com/crucial707/ems-inventory/cmd/cli/root"
	"github.com/crucial707/ems-inventory/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	inventory.InitInventory(rootCmd)
	users.InitUsers(rootCmd)
	audit.InitAudit(rootCmd)
	alerts.InitAlerts(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
