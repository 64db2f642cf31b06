package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/aeo"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	record, err := deps.Store.LoadContent(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}

	if c.Estimate {
		cost, err := deps.Analyzer.EstimateCost(record.Title, record.Body, c.Provider)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Estimated cost with %s: $%.3f\n", c.Provider, cost)
		return nil
	}

	result, err := deps.Analyzer.Analyze(deps.Ctx, record.Title, record.Body, c.Provider, c.User)
	if err != nil {
		printAnalyzeError(deps, err)
		return err
	}
	return writeJSON(deps, result)
}

// printAnalyzeError adds a hint for errors the user can act on.
func printAnalyzeError(deps *Dependencies, err error) {
	fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
	switch aeo.ErrorCode(err) {
	case aeo.EQUOTA:
		fmt.Fprintln(deps.Stderr, "Hint: Run 'aeo usage' to see your limits, or use --provider basic which is free")
	case aeo.EINSUFFICIENT:
		fmt.Fprintln(deps.Stderr, "Hint: Add more content before analyzing")
	case aeo.ETIMEOUT, aeo.EPROVIDER:
		fmt.Fprintln(deps.Stderr, "Hint: Your quota was not charged; try again or use --provider basic")
	}
}

func writeJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
