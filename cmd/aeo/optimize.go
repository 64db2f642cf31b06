package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/aeo"
)

// Run executes the optimize command: load the previous optimization,
// optionally run a provider, apply manual edits, save and print the result.
func (c *OptimizeCmd) Run(deps *Dependencies) error {
	ops, err := c.manualOps()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}
	if c.Provider == "" && len(ops) == 0 {
		err := aeo.Errorf(aeo.EINVALID, "nothing to do: pass --provider, --add or --remove")
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}

	record, err := deps.Store.LoadContent(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}

	prev, err := deps.Optimizations.FindOptimization(deps.Ctx, record.ID)
	if aeo.ErrorCode(err) == aeo.ENOTFOUND {
		prev = &aeo.OptimizationRecord{ContentID: record.ID}
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}

	var fresh *aeo.ContentAnalysisResult
	if c.Provider != "" {
		fresh, err = deps.Analyzer.Analyze(deps.Ctx, record.Title, record.Body, c.Provider, c.User)
		if err != nil {
			printAnalyzeError(deps, err)
			return err
		}
	}

	merged, err := aeo.Merge(prev, fresh, ops, deps.now())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}
	if err := deps.Optimizations.SaveOptimization(deps.Ctx, merged); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}
	return writeJSON(deps, merged)
}

func (c *OptimizeCmd) manualOps() ([]aeo.ManualOp, error) {
	ops := make([]aeo.ManualOp, 0, len(c.Add)+len(c.Remove))
	for _, arg := range c.Add {
		op, err := parseManualOp(aeo.OpAdd, arg)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	for _, arg := range c.Remove {
		op, err := parseManualOp(aeo.OpRemove, arg)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// parseManualOp parses "kind:name", e.g. "keyword:neural networks".
func parseManualOp(typ aeo.ManualOpType, arg string) (aeo.ManualOp, error) {
	kind, name, ok := strings.Cut(arg, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return aeo.ManualOp{}, aeo.Errorf(aeo.EINVALID, "invalid entry %q: want kind:name", arg)
	}
	op := aeo.ManualOp{
		Op: typ,
		Item: aeo.SuggestionItem{
			Name: strings.TrimSpace(name),
			Kind: aeo.SuggestionKind(strings.ToLower(strings.TrimSpace(kind))),
		},
	}
	if err := op.Validate(); err != nil {
		return aeo.ManualOp{}, err
	}
	return op, nil
}
