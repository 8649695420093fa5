package cli

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/clearsys/cli/cmd"
	"github.com/ardnew/clearsys/lang"
	"github.com/ardnew/clearsys/pkg"
)

// CLI is the top-level command-line interface for clearsys.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	SearchPath []string `help:"Directory searched for relative source paths; repeatable, followed by ${searchPathVar}." name:"search-path" short:"I" type:"path"`
	MaxDepth   int      `default:"${maxDepth}"                                                                              help:"Maximum depth of nested function calls."`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run a program and exit with its result (default)."`
	Check  cmd.Check  `cmd:""                    help:"Check a program without running it."`
	Tokens cmd.Tokens `cmd:""                    help:"Print the tokens of a program."`
	AST    cmd.AST    `cmd:""                    help:"Print the syntax tree of a program." name:"ast"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file."`
}

// Run executes the clearsys CLI with the given context and arguments.
//
// The exit function is called with the process exit status upon completion:
// the value returned by the program's main function for the run command
// (255 with a warning if it is outside 0..255), 1 if a language error was
// reported, or 0 otherwise. Errors not caused by the program itself, such as
// a missing source file, are returned instead.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	st := &cmd.State{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}

	err := run(ctx, st, exit, args)
	if err != nil {
		return err
	}

	exit(st.Status)

	return nil
}

// run parses args and executes the selected command with st. A language
// error is rendered on st.Stderr and sets st.Status to 1.
func run(
	ctx context.Context,
	st *cmd.State,
	exit func(code int),
	args []string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(baseConfig + ".yaml"),
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"searchPathVar":      searchPathVar,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(st.Stdout, st.Stderr),
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
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve, configPath(baseConfig+".yaml")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	st.SearchPath = searchPath(os.Getenv(searchPathVar), cli.SearchPath...)
	st.MaxDepth = cli.MaxDepth

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithState(ctx, st)

	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	err = ktx.Run(ctx)

	var diag *cmd.Diagnostic
	if errors.As(err, &diag) {
		st.Status = 1

		return diag.Render(st.Stderr)
	}

	return err
}
