package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seancedev/seance/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Running seance without arguments
// opens the interactive session; subcommands cover one-shot use.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	theme := NewTheme(container.Config.Theme)
	renderer := NewRenderer(os.Stdout, theme)

	newREPL := func() *REPL {
		return &REPL{
			Config:      &container.Config,
			SaveConfig:  container.ConfigLoader.Save,
			Interpret:   container.InterpretService,
			Suggest:     container.SuggestService,
			Store:       container.Store,
			Rituals:     container.Store,
			Engine:      container.RitualEngine,
			Knowledge:   container.Knowledge,
			Blacklist:   container.Blacklist,
			Executor:    container.Executor,
			Prompter:    NewPrompter(nil, nil, theme),
			Interpreter: container.Interpreter,
			Renderer:    renderer,
			Logger:      container.Logger,
		}
	}

	root := &cobra.Command{
		Use:   "seance",
		Short: "seance - a haunted terminal",
		Long:  "seance holds a session with a local language model: speak plainly, confirm what it proposes, and the shell obeys.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return askOnce(cmd.Context(), newREPL(), strings.Join(args, " "))
			}
			return newREPL().Run(cmd.Context())
		},
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAskCommand(newREPL))
	root.AddCommand(newHistoryCommand(container, renderer))
	root.AddCommand(newSuggestCommand(container, renderer))
	root.AddCommand(newRitualCommand(container, renderer))
	root.AddCommand(newConfigCommand(container))
	return root, nil
}

// askOnce runs a single request through the full confirm-and-execute flow.
func askOnce(ctx context.Context, r *REPL, input string) error {
	if err := r.Interpreter.CheckConnection(ctx); err != nil {
		r.Renderer.ConnectionFailure(r.Config.Interpreter.Endpoint, err)
		return err
	}
	r.handleRequest(ctx, input)
	return nil
}

func newAskCommand(newREPL func() *REPL) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [request]",
		Short: "Interpret and run one request without entering the session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return askOnce(cmd.Context(), newREPL(), strings.Join(args, " "))
		},
	}
}

func newHistoryCommand(container *app.Container, renderer *Renderer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.Store.RecentCommands(limit)
			if err != nil {
				return err
			}
			renderer.History(entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries")
	return cmd
}

func newSuggestCommand(container *app.Container, renderer *Renderer) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [partial request]",
		Short: "Ask the spirits for likely commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer.Suggestions(container.SuggestService.Suggest(strings.Join(args, " "), 5))
			return nil
		},
	}
}

func newRitualCommand(container *app.Container, renderer *Renderer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ritual",
		Short: "Manage multi-step rituals",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List rituals",
		RunE: func(cmd *cobra.Command, args []string) error {
			rituals, err := container.Store.ListRituals()
			if err != nil {
				return err
			}
			renderer.Rituals(rituals)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a ritual's steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rit, err := container.Store.Ritual(args[0])
			if err != nil {
				return err
			}
			if rit == nil {
				return fmt.Errorf("no ritual named %q", args[0])
			}
			renderer.RitualDetail(rit, container.RitualEngine.Preview(rit))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "run [name]",
		Short: "Run a ritual",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rit, err := container.Store.Ritual(args[0])
			if err != nil {
				return err
			}
			if rit == nil {
				return fmt.Errorf("no ritual named %q", args[0])
			}
			run := container.RitualEngine.Run(cmd.Context(), rit, renderer.RitualStep)
			renderer.RitualOutcome(run)
			if !run.Success {
				return fmt.Errorf("ritual %q failed", args[0])
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a ritual",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := container.Store.DeleteRitual(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no ritual named %q", args[0])
			}
			return nil
		},
	})
	return cmd
}

func newConfigCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Read a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := ConfigValue(&container.Config, args[0])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := SetConfigValue(&container.Config, args[0], args[1]); err != nil {
				return err
			}
			return container.ConfigLoader.Save(container.Config)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the config file location",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(container.ConfigLoader.Path())
		},
	})
	return cmd
}
