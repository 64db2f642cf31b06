package main

import (
	"fmt"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/fs"
	"golang.org/x/sync/errgroup"
)

type compileOutcome struct {
	file   string
	id     string
	result *aeo.CompileResult
	err    error
}

// Run executes the compile command. Records compile in parallel; output
// follows argument order. A failed record does not stop the others.
func (c *CompileCmd) Run(deps *Dependencies) error {
	if len(c.Files) == 0 {
		return aeo.Errorf(aeo.EINVALID, "at least one content file required")
	}
	workers := c.Workers
	if workers <= 0 {
		workers = 1
	}

	outcomes := make([]compileOutcome, len(c.Files))
	g, gctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(workers)
	for i, file := range c.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = compileFile(deps, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var writer *fs.SchemaWriter
	if c.Out != "" {
		writer = fs.NewSchemaWriter(c.Out)
	}

	var failed int
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", o.file, aeo.ErrorMessage(o.err))
			continue
		}
		for _, w := range o.result.Warnings {
			fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", o.file, formatWarning(w))
		}
		if writer != nil {
			path, err := writer.WriteSchema(o.id, o.result.Document)
			if err != nil {
				failed++
				fmt.Fprintf(deps.Stderr, "error: %s: %s\n", o.file, aeo.ErrorMessage(err))
				continue
			}
			fmt.Fprintf(deps.Stdout, "%s -> %s\n", o.file, path)
			continue
		}
		data, err := o.result.Document.MarshalIndent()
		if err != nil {
			return err
		}
		_, _ = deps.Stdout.Write(data)
	}

	if failed > 0 {
		return aeo.Errorf(aeo.EINVALID, "%d of %d records failed to compile", failed, len(c.Files))
	}
	return nil
}

func compileFile(deps *Dependencies, file string) compileOutcome {
	o := compileOutcome{file: file}
	record, err := deps.Store.LoadContent(file)
	if err != nil {
		o.err = err
		return o
	}
	o.id = record.ID
	if err := record.Validate(); err != nil {
		o.err = err
		return o
	}
	o.result, o.err = deps.Compiler.Compile(record)
	return o
}

func formatWarning(w aeo.SchemaWarning) string {
	if w.Field == "" {
		return fmt.Sprintf("%s (%s)", w.Message, w.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", w.Field, w.Message, w.Code)
}
