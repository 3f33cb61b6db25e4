package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rhq-project/rhq-coregui/internal/dto"
	"github.com/spf13/cast"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printSubject(s dto.SubjectResponse) {
	fmt.Printf("ID:      %d\n", s.ID)
	fmt.Printf("Name:    %s\n", s.Name)
	if full := strings.TrimSpace(s.FirstName + " " + s.LastName); full != "" {
		fmt.Printf("Full:    %s\n", full)
	}
	if s.EmailAddress != "" {
		fmt.Printf("Email:   %s\n", s.EmailAddress)
	}
	fmt.Printf("Active:  %t\n", s.Factive)
	if len(s.Roles) > 0 {
		names := make([]string, len(s.Roles))
		for i, r := range s.Roles {
			names[i] = r.Name
		}
		fmt.Printf("Roles:   %s\n", strings.Join(names, ", "))
	}
}

// tableColumns are shown first when present; other scalar fields follow in
// name order.
var tableColumns = []string{"id", "name", "status", "severity", "priority", "resource_id"}

func printPage(page dto.PageListResponse[map[string]any]) {
	columns := pageColumns(page.Items)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(columns, "\t")))
	for _, item := range page.Items {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = truncate(cast.ToString(item[col]), 50)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()

	if page.Unbounded {
		fmt.Printf("\n%d items\n", len(page.Items))
		return
	}
	fmt.Printf("\n%d items (%d total, page %d)\n", len(page.Items), page.TotalSize, page.PageNumber)
}

func pageColumns(items []map[string]any) []string {
	present := map[string]bool{}
	for _, item := range items {
		for key, value := range item {
			switch value.(type) {
			case map[string]any, []any:
				continue
			}
			present[key] = true
		}
	}

	var columns []string
	for _, col := range tableColumns {
		if present[col] {
			columns = append(columns, col)
			delete(present, col)
		}
	}
	rest := make([]string, 0, len(present))
	for key := range present {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
