package cli

import (
	"context"
	"io"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hugo/cli/cmd"
	"github.com/ardnew/hugo/lang"
	"github.com/ardnew/hugo/log"
	"github.com/ardnew/hugo/pkg"
)

// defaultSource is the source read by the run command when none is given.
const defaultSource = "test.hl"

// CLI is the top-level command-line interface for hugo.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Memo  bool   `default:"true" help:"Memoise grammar rule results."                 negatable:""`
	Color string `default:"auto" enum:"auto,always,never" help:"Color rendered diagnostics."`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Parse a source and run the compilation stages."`
	Check cmd.Check `cmd:""                    help:"Parse a source and report its diagnostics."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Print a source's declarations."`
	Expr  cmd.Expr  `cmd:""                    help:"Print the tree of a single expression."`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session."`
}

// Run executes the hugo CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	return run(ctx, exit, nil, args...)
}

// run is Run with the command output redirected to w when it is not nil.
func run(ctx context.Context, exit func(code int), w io.Writer, args ...string) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		cmd.SourceIdentifier: defaultSource,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logging flags take effect before kong reports anything.
	cli.Log.scan(args)

	options := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+extJSON),
		kong.Configuration(loadTOML, configFilePath+extTOML),
		kong.Configuration(resolve(ctx), configFilePath+extHL),
		vars,
	}

	if w != nil {
		options = append(options, kong.Writers(w, w))
	}

	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is a no-op unless built with tag pprof.
	defer cli.Pprof.start(ctx)()

	ctx = lang.WithContextLogger(ctx, log.Default())
	ctx = cmd.WithSettings(ctx, cmd.Settings{Memo: cli.Memo, Color: cli.Color})

	if w != nil {
		ctx = cmd.WithOutput(ctx, w)
	}

	return ktx.Run()
}
