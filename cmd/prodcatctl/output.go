package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/lzjever/prodcat/internal/maintenance"
)

func printResult(v interface{}) {
	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(v)
		return
	}
	printTable(v)
}

func printTable(v interface{}) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	switch data := v.(type) {
	case []ProductRow:
		if len(data) == 0 {
			fmt.Println("No products found.")
			return
		}
		fmt.Fprintln(w, "ID\tORDER\tNAME\tDOCS\tURL")
		for _, p := range data {
			fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\n", p.ID, p.DisplayOrder, truncate(p.Name, 40), len(p.Documents), p.URL)
		}
	case []LogRow:
		if len(data) == 0 {
			fmt.Println("No audit events found.")
			return
		}
		fmt.Fprintln(w, "TIMESTAMP\tACTION\tENTITY\tID\tBY\tDETAILS")
		for _, l := range data {
			id := ""
			if l.EntityID != nil {
				id = *l.EntityID
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", l.Timestamp, l.Action, l.Entity, id, l.PerformedBy, truncate(l.Details, 60))
		}
	case []maintenance.ProductSummary:
		if len(data) == 0 {
			fmt.Println("No products found.")
			return
		}
		fmt.Fprintln(w, "ID\tNAME\tURL\tDESCRIPTION")
		for _, p := range data {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, truncate(p.Name, 40), p.URL, truncate(p.Description, 50))
		}
	case maintenance.BackupResult:
		fmt.Fprintf(w, "File:\t%s\n", data.Path)
		fmt.Fprintf(w, "Users:\t%d\n", data.Counts.Users)
		fmt.Fprintf(w, "Products:\t%d\n", data.Counts.Products)
		fmt.Fprintf(w, "Documents:\t%d\n", data.Counts.Documents)
		fmt.Fprintf(w, "Assets:\t%d\n", data.Counts.Assets)
		fmt.Fprintf(w, "Logs:\t%d\n", data.Counts.Logs)
	case maintenance.SeedResult:
		fmt.Fprintf(w, "Assets upserted:\t%d\n", data.Assets)
		fmt.Fprintf(w, "Products removed:\t%d\n", data.ProductsRemoved)
		fmt.Fprintf(w, "Products created:\t%d\n", data.ProductsCreated)
		fmt.Fprintf(w, "Admin created:\t%t\n", data.AdminCreated)
	case maintenance.EnrichResult:
		fmt.Fprintf(w, "Checked:\t%d\n", data.Checked)
		fmt.Fprintf(w, "Updated:\t%d\n", data.Updated)
		fmt.Fprintf(w, "Skipped:\t%d\n", data.Skipped)
		fmt.Fprintf(w, "Failed:\t%d\n", data.Failed)
	default:
		json.NewEncoder(os.Stdout).Encode(v)
	}
	w.Flush()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
