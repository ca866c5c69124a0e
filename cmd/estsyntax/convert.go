package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gonuts/commander"

	"github.com/dgallion1/estsyntax/internal/config"
	"github.com/dgallion1/estsyntax/internal/pipeline"
	"github.com/dgallion1/estsyntax/internal/render"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

var optionFlags = map[string]string{
	"check_tokens":     "fail when a document word differs from the parser's token",
	"add_word_ids":     "add text_word_id and sent_word_id to every record",
	"rep_miss_w_dummy": "replace missing analyses with a dummy edge",
	"fix_selfrefs":     "repair edges pointing at their own word",
	"mark_root":        "label root edges ROOT",
	"keep_old":         "keep the raw parser lines as init_parser_out",
}

func convert(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		cmd.Usage()
		return fmt.Errorf("expected one input file, got %d", len(args))
	}
	path := args[0]

	level := slog.LevelWarn
	if cmd.Flag.Lookup("v").Value.String() == "true" {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	p, err := convertParams(cmd)
	if err != nil {
		return err
	}
	res, err := pipeline.ReadFile(path, p, log)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := io.Writer(os.Stdout)
	if name := cmd.Flag.Lookup("o").Value.String(); name != "" && name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeResult(out, cmd.Flag.Lookup("out").Value.String(), filepath.Base(path), res)
}

func convertParams(cmd *commander.Command) (pipeline.Params, error) {
	var p pipeline.Params
	if name := cmd.Flag.Lookup("f").Value.String(); name != "" {
		f, err := syntax.ParseFormat(name)
		if err != nil {
			return p, err
		}
		p.Format = f
	}

	opts, err := config.LoadOptions(cmd.Flag.Lookup("options").Value.String())
	if err != nil {
		return p, err
	}
	var setErr error
	cmd.Flag.Visit(func(f *flag.Flag) {
		if _, ok := optionFlags[f.Name]; !ok || setErr != nil {
			return
		}
		v, err := strconv.ParseBool(f.Value.String())
		if err == nil {
			err = opts.Set(f.Name, v)
		}
		setErr = err
	})
	if setErr != nil {
		return p, setErr
	}
	p.Options = opts

	p.Layer = cmd.Flag.Lookup("layer").Value.String()
	p.Trees = cmd.Flag.Lookup("trees").Value.String() == "true"
	return p, nil
}

func writeResult(w io.Writer, kind, title string, res *pipeline.Result) error {
	in := render.Input{Title: title, Format: res.Format, Doc: res.Doc, Records: res.Records, Trees: res.Trees}
	switch kind {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "report":
		_, err := io.WriteString(w, render.Report(in))
		return err
	case "html":
		page, err := render.ReportHTML(in)
		if err != nil {
			return err
		}
		_, err = w.Write(page)
		return err
	case "bracketed":
		if res.Trees == nil {
			return fmt.Errorf("-out bracketed needs -trees")
		}
		_, err := io.WriteString(w, render.Bracketed(res.Trees))
		return err
	default:
		return fmt.Errorf("unknown output kind %q (json, report, html, bracketed)", kind)
	}
}

func convertCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       convert,
		UsageLine: "convert [-f <format>] [options] <parser output file>",
		Short:     "normalize a VISL-CG3 or CONLL parser output file",
		Long: `
normalize a VISL-CG3 or CONLL parser output file and print the syntax layer

	$ ./estsyntax convert -f conll -trees -out bracketed malt_out.conll
	$ ./estsyntax convert -mark_root -keep_old out.cg3

The format is inferred from the file extension (.cg3, .vislcg3, .conll,
.conllx, .malt) when -f is not given. Option flags override the values
from -options.

`,
		Flag: *flag.NewFlagSet("convert", flag.ExitOnError),
	}
	cmd.Flag.String("f", "", "input format: vislcg3, cg3, conll, malt, maltparser")
	cmd.Flag.String("options", os.Getenv("OPTIONS_FILE"), "YAML file with normalization options")
	cmd.Flag.String("layer", "", "layer name (default vislcg3_syntax or conll_syntax)")
	cmd.Flag.Bool("trees", false, "build one dependency tree per sentence")
	cmd.Flag.String("out", "json", "output: json, report, html, bracketed")
	cmd.Flag.String("o", "-", "output file")
	cmd.Flag.Bool("v", false, "log diagnostics")
	for name, usage := range optionFlags {
		cmd.Flag.Bool(name, false, usage)
	}
	return cmd
}
