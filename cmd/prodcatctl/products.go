package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ProductRow struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	DisplayOrder int           `json:"displayOrder"`
	Documents    []interface{} `json:"documents,omitempty"`
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage catalog products through the API",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active products in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows []ProductRow
		if err := NewClient(apiURL).Get(cmd.Context(), "/api/products", &rows); err != nil {
			return err
		}
		printResult(rows)
		return nil
	},
}

var (
	deleteUsername string
	deletePassword string
)

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Hide a product (admin credentials required)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"username": deleteUsername, "password": deletePassword}
		if err := NewClient(apiURL).Delete(cmd.Context(), "/api/products/"+args[0], body, nil); err != nil {
			return err
		}
		fmt.Printf("Product %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	productsDeleteCmd.Flags().StringVarP(&deleteUsername, "username", "u", "", "Admin username")
	productsDeleteCmd.Flags().StringVarP(&deletePassword, "password", "p", "", "Admin password")
	productsDeleteCmd.MarkFlagRequired("username")
	productsDeleteCmd.MarkFlagRequired("password")

	productsCmd.AddCommand(productsListCmd, productsDeleteCmd)
	rootCmd.AddCommand(productsCmd)
}
