package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mvz/ripper-parser-sub000/sexp"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newParseCmd(opts *options) *cobra.Command {
	var (
		format   string
		lineno   int
		filename string
		numbered bool
		jobs     int
	)
	cmd := &cobra.Command{
		Use:   "parse [file|glob]...",
		Short: "Print the AST of grammar-engine dumps",
		Long: `parse rewrites each dump into a canonical AST and prints it. Arguments
may be doublestar globs ("testdata/**/*.dump"). Without arguments, or
with "-", the dump is read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := opts.conf
			flags := cmd.Flags()
			if flags.Changed("format") {
				conf.Format = format
			}
			if flags.Changed("lineno") {
				conf.Lineno = lineno
			}
			if flags.Changed("filename") {
				conf.Filename = filename
			}
			if flags.Changed("numbered") {
				conf.Numbered = numbered
			}
			if flags.Changed("jobs") {
				conf.Jobs = jobs
			}
			if err := conf.validate(); err != nil {
				return err
			}
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				return parseStdin(cmd.InOrStdin(), cmd.OutOrStdout(), conf)
			}
			files, err := expandGlobs(args)
			if err != nil {
				return err
			}
			return parseFiles(cmd.OutOrStdout(), files, conf)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", formatList, "output format [list|lines|tree|digest]")
	f.IntVar(&lineno, "lineno", 1, "line number of the first line")
	f.StringVar(&filename, "filename", "", "file name for errors and __FILE__ (default: the input's name)")
	f.BoolVar(&numbered, "numbered", true, "detect numbered block parameters")
	f.IntVarP(&jobs, "jobs", "j", 4, "number of files rewritten in parallel")
	return cmd
}

// expandGlobs turns arguments into a sorted list of files. Arguments which
// are no glob patterns are taken as file names.
func expandGlobs(args []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func parseStdin(in io.Reader, out io.Writer, conf *Config) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	ast, err := conf.parser("-").Parse(string(src))
	if err != nil {
		return err
	}
	return render(out, ast, conf.Format)
}

// outcome is the result of rewriting a single file.
type outcome struct {
	file string
	ast  *sexp.Node
	err  error
}

// parseFiles rewrites files concurrently and prints the results in the
// order of files. A failing file does not stop the others.
func parseFiles(out io.Writer, files []string, conf *Config) error {
	jobs := make([]job, len(files))
	for i, f := range files {
		jobs[i] = job{path: f, name: f}
	}
	results := rewriteAll(jobs, conf)
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			pterm.Error.Println(r.err.Error())
			continue
		}
		if len(files) > 1 {
			fmt.Fprintf(out, "# %s\n", r.file)
		}
		if conf.Format == formatTree {
			pterm.Info.Println(r.file)
		}
		if err := render(out, r.ast, conf.Format); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// job is a dump file to rewrite. The name is used as the file name of the
// parse.
type job struct {
	path string
	name string
}

func rewriteAll(jobs []job, conf *Config) []outcome {
	results := make([]outcome, len(jobs))
	var g errgroup.Group
	g.SetLimit(conf.Jobs)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			results[i] = rewriteFile(j, conf)
			return nil
		})
	}
	g.Wait()
	return results
}

func rewriteFile(j job, conf *Config) outcome {
	src, err := os.ReadFile(j.path)
	if err != nil {
		return outcome{file: j.name, err: err}
	}
	tracer().Debugf("rewriting %s", j.path)
	ast, err := conf.parser(j.name).Parse(string(src))
	return outcome{file: j.name, ast: ast, err: err}
}

// renderString renders an AST into a string.
func renderString(ast *sexp.Node, format string) (string, error) {
	var b bytes.Buffer
	err := render(&b, ast, format)
	return b.String(), err
}
