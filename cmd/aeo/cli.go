package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/analysis"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx           context.Context
	Stdout        io.Writer
	Stderr        io.Writer
	Logger        *slog.Logger
	Config        *Config
	Compiler      *aeo.Compiler
	Store         aeo.ContentStore
	Analyzer      *analysis.Analyzer
	Ledger        aeo.UsageLedger
	Optimizations aeo.OptimizationService
	Fetcher       aeo.Fetcher
	Extractor     aeo.Extractor

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" env:"AEO_CONFIG" type:"path" help:"YAML configuration file"`
	DB      string `env:"AEO_DB" type:"path" help:"SQLite database path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Compile   CompileCmd   `cmd:"" help:"Compile content records to JSON-LD"`
	Analyze   AnalyzeCmd   `cmd:"" help:"Suggest keywords, tags, topics and FAQs for a content record"`
	Optimize  OptimizeCmd  `cmd:"" help:"Merge AI suggestions and manual edits into a record's optimization"`
	Usage     UsageCmd     `cmd:"" help:"Show or change a user's monthly AI usage"`
	Providers ProvidersCmd `cmd:"" help:"List analysis providers"`
	Import    ImportCmd    `cmd:"" help:"Import a published page as a content record"`
}

// CompileCmd is the "compile" subcommand.
type CompileCmd struct {
	Files   []string `arg:"" type:"path" help:"Content record files (.yaml, .yml, .json)"`
	Out     string   `short:"o" type:"path" help:"Write <id>.jsonld files to this directory instead of stdout"`
	Workers int      `short:"w" default:"4" help:"Records compiled in parallel"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	File     string `arg:"" type:"path" help:"Content record file"`
	Provider string `short:"p" default:"basic" help:"Provider key (see 'aeo providers')"`
	User     string `short:"u" env:"AEO_USER" help:"User charged for AI analyses"`
	Estimate bool   `help:"Print the estimated cost without analyzing"`
}

// OptimizeCmd is the "optimize" subcommand.
type OptimizeCmd struct {
	File     string   `arg:"" type:"path" help:"Content record file"`
	User     string   `short:"u" env:"AEO_USER" help:"User charged for AI analyses"`
	Provider string   `short:"p" help:"Provider key; omit to apply manual edits only"`
	Add      []string `short:"a" help:"Add a manual entry as kind:name (keyword, topic or tag)"`
	Remove   []string `short:"r" help:"Remove an entry as kind:name"`
}

// UsageCmd is the "usage" subcommand.
type UsageCmd struct {
	User        string  `short:"u" env:"AEO_USER" required:"" help:"User ID"`
	SetAnalyses int     `name:"set-analyses" default:"-1" help:"Set the user's monthly analysis limit"`
	SetCost     float64 `name:"set-cost" default:"-1" help:"Set the user's monthly cost limit in USD"`
}

// ProvidersCmd is the "providers" subcommand.
type ProvidersCmd struct{}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	URL        string `arg:"" help:"Page URL"`
	Out        string `short:"o" required:"" type:"path" help:"Content record file to write (.yaml, .yml, .json)"`
	ID         string `help:"Content ID; defaults to a slug of the title"`
	SchemaType string `name:"type" default:"BlogPosting" help:"Schema.org type of the record"`
	Render     bool   `help:"Render the page in headless Chrome before extracting"`
}
