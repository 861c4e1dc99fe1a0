package main

import (
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// options collects the persistent flags of all commands.
type options struct {
	configFile string
	traceLevel string
	conf       *Config
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "rparse",
		Short: "Rewrite Ruby parse trees into canonical ASTs",
		Long: `rparse reads dumps of the parse trees a Ruby grammar engine produces
and rewrites them into canonical s-expression ASTs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(opts.configFile)
			if err != nil {
				return err
			}
			opts.conf = conf
			setupTracing(conf, opts.traceLevel)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./"+defaultConfigFile+")")
	root.PersistentFlags().StringVar(&opts.traceLevel, "trace", "Error", "trace level [Debug|Info|Error]")
	root.AddCommand(newParseCmd(opts), newCheckCmd(opts), newReplCmd(opts))
	return root
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// setupTracing sets every tracer to level, then applies the per-key levels
// of the config.
func setupTracing(conf *Config, level string) {
	l := tracing.TraceLevelFromString(level)
	for _, key := range tracingKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	for key, lvl := range conf.Trace {
		tracing.Select(key).SetTraceLevel(tracing.TraceLevelFromString(lvl))
	}
	tracer().Debugf("trace level is %s", level)
}
