package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/emi-kkobayashi/gstd-1.x/internal/protocol"
)

// TableColumn represents a column in a table
type TableColumn struct {
	Header string
	Key    string // key to extract from data map
	Width  int    // calculated width
}

// renderTable renders a table with dynamic column width calculation
func renderTable(columns []TableColumn, data []map[string]interface{}) {
	if len(data) == 0 {
		fmt.Println("No data to display")
		return
	}

	for i := range columns {
		columns[i].Width = len(columns[i].Header)
		for _, row := range data {
			if value, exists := row[columns[i].Key]; exists {
				valueStr := fmt.Sprintf("%v", value)
				if len(valueStr) > columns[i].Width {
					columns[i].Width = len(valueStr)
				}
			}
		}
	}

	var headerParts []string
	for _, col := range columns {
		headerParts = append(headerParts, fmt.Sprintf("%-*s", col.Width, col.Header))
	}
	fmt.Println(strings.Join(headerParts, " "))

	var separatorParts []string
	for _, col := range columns {
		separatorParts = append(separatorParts, strings.Repeat("-", col.Width))
	}
	fmt.Println(strings.Join(separatorParts, " "))

	for _, row := range data {
		var rowParts []string
		for _, col := range columns {
			value := ""
			if v, exists := row[col.Key]; exists {
				value = fmt.Sprintf("%v", v)
			}
			rowParts = append(rowParts, fmt.Sprintf("%-*s", col.Width, value))
		}
		fmt.Println(strings.Join(rowParts, " "))
	}
}

// colorizeState highlights pipeline states in text output.
func colorizeState(state string) string {
	switch state {
	case protocol.StatePlaying:
		return color.GreenString(state)
	case protocol.StatePaused:
		return color.YellowString(state)
	case protocol.StateNull, protocol.StateReady:
		return color.CyanString(state)
	default:
		return state
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
