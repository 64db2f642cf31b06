package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Run executes the providers command.
func (c *ProvidersCmd) Run(deps *Dependencies) error {
	tw := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tQUALITY\tTIME\tCOST")
	for _, p := range deps.Analyzer.Providers() {
		cost := "paid"
		if p.Free {
			cost = "free"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t~%ds\t%s\n",
			p.Key, p.Name, stars(p.QualityRating), p.EstimatedTime, cost)
	}
	return tw.Flush()
}

func stars(rating int) string {
	rating = min(max(rating, 0), 5)
	return strings.Repeat("*", rating) + strings.Repeat(".", 5-rating)
}
