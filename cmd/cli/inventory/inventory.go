package inventory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/crucial707/ems-inventory/cmd/cli/client"
	"github.com/crucial707/ems-inventory/cmd/cli/output"
	"github.com/spf13/cobra"
)

// item mirrors the API's inventory representation.
type item struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Description    string     `json:"description"`
	Quantity       int        `json:"quantity"`
	ExpirationDate *time.Time `json:"expiration_date"`
	MinThreshold   int        `json:"min_threshold"`
	LastUpdated    time.Time  `json:"last_updated"`
}

func (i item) expiration() string {
	if i.ExpirationDate == nil {
		return "-"
	}
	return i.ExpirationDate.Format("2006-01-02")
}

// ==========================
// Init Inventory
// ==========================
func InitInventory(rootCmd *cobra.Command) {

	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Manage inventory items",
	}

	itemsCmd.AddCommand(
		listItemsCmd(),
		showItemCmd(),
		createItemCmd(),
		adjustItemCmd("increase", "Increase item quantity"),
		adjustItemCmd("decrease", "Decrease item quantity"),
		setQuantityCmd(),
		setExpirationCmd(),
		setDescriptionCmd(),
		setThresholdCmd(),
		setCategoryCmd(),
		deleteItemCmd(),
	)

	rootCmd.AddCommand(itemsCmd)
}

func itemPath(name string) string {
	return "/items/" + url.PathEscape(name)
}

// ==========================
// LIST / SHOW
// ==========================
func listItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []item
			if err := client.DoJSON(http.MethodGet, "/items/", nil, true, &items); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(items))
			for _, it := range items {
				rows = append(rows, []interface{}{
					it.ID, it.Name, it.Category, it.Quantity, it.MinThreshold, it.expiration(),
				})
			}
			output.RenderTable([]string{"ID", "Name", "Category", "Quantity", "Min Threshold", "Expires"}, rows)
			return nil
		},
	}
}

func showItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show one inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var it item
			if err := client.DoJSON(http.MethodGet, itemPath(args[0]), nil, true, &it); err != nil {
				return err
			}
			b, _ := json.MarshalIndent(it, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createItemCmd() *cobra.Command {

	var name, category, description, expiration string
	var quantity, minThreshold int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create inventory item",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"name":          name,
				"category":      category,
				"description":   description,
				"quantity":      quantity,
				"min_threshold": minThreshold,
			}
			if expiration != "" {
				payload["expiration_date"] = expiration
			}

			var it item
			if err := client.DoJSON(http.MethodPost, "/items/", payload, true, &it); err != nil {
				return err
			}
			b, _ := json.MarshalIndent(it, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&category, "category", "", "item category")
	cmd.Flags().StringVar(&description, "description", "", "item description")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "starting quantity")
	cmd.Flags().StringVar(&expiration, "expiration", "", "expiration date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&minThreshold, "min-threshold", 0, "low-stock threshold (0 disables)")

	return cmd
}

// ==========================
// Quantity adjustments
// ==========================
func adjustItemCmd(verb, short string) *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   verb + " [name]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]int{"amount": amount}
			if err := client.DoJSON(http.MethodPost, itemPath(args[0])+"/"+verb, payload, true, nil); err != nil {
				return err
			}
			fmt.Printf("Quantity %sd by %d\n", verb, amount)
			return nil
		},
	}
	cmd.Flags().IntVar(&amount, "amount", 1, "amount to "+verb+" by")
	return cmd
}

// ==========================
// Field setters
// ==========================
func setQuantityCmd() *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "set-quantity [name]",
		Short: "Set item quantity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]int{"quantity": quantity}
			if err := client.DoJSON(http.MethodPut, itemPath(args[0])+"/quantity", payload, true, nil); err != nil {
				return err
			}
			fmt.Println("Quantity updated")
			return nil
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new quantity")
	return cmd
}

func setExpirationCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "set-expiration [name]",
		Short: "Set item expiration date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"expiration_date": date}
			if err := client.DoJSON(http.MethodPut, itemPath(args[0])+"/expiration", payload, true, nil); err != nil {
				return err
			}
			fmt.Println("Expiration date updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "expiration date (YYYY-MM-DD)")
	return cmd
}

func setDescriptionCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "set-description [name]",
		Short: "Set item description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"description": description}
			if err := client.DoJSON(http.MethodPut, itemPath(args[0])+"/description", payload, true, nil); err != nil {
				return err
			}
			fmt.Println("Description updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func setThresholdCmd() *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "set-threshold [name]",
		Short: "Set item low-stock threshold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]int{"min_threshold": threshold}
			if err := client.DoJSON(http.MethodPut, itemPath(args[0])+"/threshold", payload, true, nil); err != nil {
				return err
			}
			fmt.Println("Minimum threshold updated")
			return nil
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 0, "low-stock threshold (0 disables)")
	return cmd
}

func setCategoryCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "set-category [name]",
		Short: "Set item category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"category": category}
			if err := client.DoJSON(http.MethodPut, itemPath(args[0])+"/category", payload, true, nil); err != nil {
				return err
			}
			fmt.Println("Category updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "new category")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DoJSON(http.MethodDelete, itemPath(args[0]), nil, true, nil); err != nil {
				return err
			}
			fmt.Println("Item deleted")
			return nil
		},
	}
}
