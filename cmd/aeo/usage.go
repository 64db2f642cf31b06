package main

import (
	"fmt"

	"github.com/fwojciec/aeo"
)

// Run executes the usage command. Limit flags are applied before the
// summary is printed.
func (c *UsageCmd) Run(deps *Dependencies) error {
	if c.SetAnalyses >= 0 || c.SetCost >= 0 {
		current, err := deps.Ledger.Usage(deps.Ctx, c.User)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
			return err
		}
		limits := aeo.Limits{Analyses: current.AnalysesLimit, Cost: current.CostLimit}
		if c.SetAnalyses >= 0 {
			limits.Analyses = c.SetAnalyses
		}
		if c.SetCost >= 0 {
			limits.Cost = c.SetCost
		}
		if err := deps.Ledger.SetLimits(deps.Ctx, c.User, limits); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
			return err
		}
	}

	summary, err := deps.Ledger.Usage(deps.Ctx, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "User:      %s\n", c.User)
	fmt.Fprintf(deps.Stdout, "Period:    %s\n", aeo.Period(deps.now()))
	fmt.Fprintf(deps.Stdout, "Analyses:  %d / %d\n", summary.AnalysesUsed, summary.AnalysesLimit)
	fmt.Fprintf(deps.Stdout, "Cost:      $%.3f / $%.2f\n", summary.CostUsed, summary.CostLimit)
	fmt.Fprintf(deps.Stdout, "Used:      %.1f%%\n", summary.PercentageUsed)
	return nil
}
