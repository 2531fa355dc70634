package alerts

import (
	"net/http"
	"time"

	"github.com/crucial707/ems-inventory/cmd/cli/client"
	"github.com/crucial707/ems-inventory/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Alerts
// ==========================
func InitAlerts(rootCmd *cobra.Command) {

	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Inventory condition reports",
	}

	alertsCmd.AddCommand(expiredCmd(), lowStockCmd())
	rootCmd.AddCommand(alertsCmd)
}

func expiredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expired",
		Short: "List items past their expiration date",
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []struct {
				Name           string    `json:"name"`
				Quantity       int       `json:"quantity"`
				ExpirationDate time.Time `json:"expiration_date"`
			}
			if err := client.DoJSON(http.MethodGet, "/alerts/expired", nil, true, &items); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(items))
			for _, it := range items {
				rows = append(rows, []interface{}{
					it.Name, it.Quantity, it.ExpirationDate.Format("2006-01-02"),
				})
			}
			output.RenderTable([]string{"Name", "Quantity", "Expired"}, rows)
			return nil
		},
	}
}

func lowStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "low-stock",
		Short: "List items below their minimum threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []struct {
				Name         string `json:"name"`
				Quantity     int    `json:"quantity"`
				MinThreshold int    `json:"min_threshold"`
			}
			if err := client.DoJSON(http.MethodGet, "/alerts/low-stock", nil, true, &items); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(items))
			for _, it := range items {
				rows = append(rows, []interface{}{it.Name, it.Quantity, it.MinThreshold})
			}
			output.RenderTable([]string{"Name", "Quantity", "Min Threshold"}, rows)
			return nil
		},
	}
}
