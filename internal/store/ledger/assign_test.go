package ledger

import (
	"testing"

	"github.com/strandwork/overseer/internal/domain/tool"
)

func TestAssignToolsKeywordRules(t *testing.T) {
	tests := []struct {
		desc string
		want []tool.Name
	}{
		{
			desc: "Calculate the first 10 fibonacci numbers",
			want: []tool.Name{tool.ExecuteCode},
		},
		{
			desc: "Save the results to output.txt",
			want: []tool.Name{tool.WriteFile},
		},
		{
			desc: "Read the data from file and display a summary",
			want: []tool.Name{tool.ReadFile},
		},
		{
			desc: "Edit the config to change the port",
			want: []tool.Name{tool.EditFile},
		},
		{
			desc: "Search the internet for current prices",
			want: []tool.Name{tool.SearchInternet},
		},
		{
			desc: "Scrape the product page",
			want: []tool.Name{tool.WebScrape},
		},
		{
			desc: "Compute the sum and save it to disk",
			want: []tool.Name{tool.ExecuteCode, tool.WriteFile},
		},
	}

	for _, tt := range tests {
		got := assignTools(tt.desc, nil)
		if len(got) != len(tt.want) {
			t.Errorf("assignTools(%q) = %v, want %v", tt.desc, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("assignTools(%q) = %v, want %v", tt.desc, got, tt.want)
				break
			}
		}
	}
}

func TestAssignToolsReportSuppressesCalculation(t *testing.T) {
	// "sum" alone triggers execute_code, but a reporting task that merely
	// mentions a sum should not.
	got := assignTools("Show a report of the sum from the data file", nil)
	for _, n := range got {
		if n == tool.ExecuteCode {
			t.Errorf("report task assigned execute_code: %v", got)
		}
	}

	// Primary calculation keywords are never suppressed.
	got = assignTools("Display the calculated total using the formula", nil)
	if len(got) == 0 || got[0] != tool.ExecuteCode {
		t.Errorf("primary keyword suppressed: %v", got)
	}
}

func TestAssignToolsDefaults(t *testing.T) {
	// No rule matches and no defaults: write_file alone.
	got := assignTools("Do the thing", nil)
	if len(got) != 1 || got[0] != tool.WriteFile {
		t.Errorf("fallback = %v, want [write_file]", got)
	}

	// Caller defaults win over the built-in fallback.
	got = assignTools("Do the thing", []tool.Name{tool.ReadFile, tool.ExecuteCode})
	if len(got) != 2 || got[0] != tool.ReadFile || got[1] != tool.ExecuteCode {
		t.Errorf("defaults = %v", got)
	}

	// Defaults are ignored when a rule matches.
	got = assignTools("Search for restaurants nearby", []tool.Name{tool.ReadFile})
	if len(got) != 1 || got[0] != tool.SearchInternet {
		t.Errorf("rule match with defaults = %v", got)
	}
}
