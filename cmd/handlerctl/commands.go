package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fulldump/handlerdb/database"
	"github.com/fulldump/handlerdb/registry"
	"github.com/fulldump/handlerdb/result"
)

type options struct {
	Dir           string
	File          string
	MaxRecordSize int64
	Caller        string
	Prefix        bool
	Verbose       bool
}

type storeKey struct{}

func getStore(ctx context.Context) *registry.Store {
	return ctx.Value(storeKey{}).(*registry.Store)
}

func NewRootCommand() *cobra.Command {

	opts := &options{}

	root := &cobra.Command{
		Use:   "handlerctl",
		Short: "Inspect and edit a content handler registry file",
		Long: `handlerctl works directly on a registry file, no server needed.

Usage examples:

1. Register a handler from a JSON file:

	handlerctl register viewer.json

2. Register a handler from standard input:

	cat viewer.json | handlerctl register -

3. Find the handlers of a content type:

	handlerctl find types text/plain
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l := logrus.New()
			l.SetOutput(cmd.ErrOrStderr())
			l.SetLevel(logrus.WarnLevel)
			if opts.Verbose {
				l.SetLevel(logrus.DebugLevel)
			}

			store := registry.New(database.ResolvePath(opts.Dir, opts.File),
				registry.WithLogger(l),
				registry.WithMaxRecordSize(opts.MaxRecordSize),
			)
			cmd.SetContext(context.WithValue(cmd.Context(), storeKey{}, store))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.Dir, "dir", "", "registry directory, the home directory when empty")
	flags.StringVar(&opts.File, "file", database.DefaultFilename, "registry file name inside dir")
	flags.Int64Var(&opts.MaxRecordSize, "max-record-size", registry.DefaultMaxRecordSize, "largest record or field to read or write, in bytes")
	flags.StringVar(&opts.Caller, "caller", "", "apply the access lists as seen by this caller id")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log registry operations")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show the summary of a handler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := registry.Exact
			if opts.Prefix {
				mode = registry.Prefix
			}
			summary, err := getStore(cmd.Context()).GetHandler(opts.Caller, args[0], mode)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	get.Flags().BoolVar(&opts.Prefix, "prefix", false, "match stored ids that are a prefix of <id>")

	root.AddCommand(
		registerCommand(),
		unregisterCommand(),
		findCommand(opts),
		suiteCommand(),
		valuesCommand(opts),
		get,
		fieldCommand(),
		statCommand(),
	)

	return root
}

func registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register <file | ->",
		Short: "Register a handler described as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			h := &registry.Handler{}
			if err := json.UnmarshalRead(r, h); err != nil {
				return fmt.Errorf("%w: decode handler: %w", registry.ErrInvalidArgument, err)
			}

			if err := getStore(cmd.Context()).Register(h); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), h.Summary())
		},
	}
}

func unregisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <id>",
		Short: "Remove every handler with this id, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getStore(cmd.Context()).Unregister(args[0])
		},
	}
}

func findCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "find <id | types | suffixes | actions> <value>",
		Short: "List the handlers whose field matches value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := registry.ParseField(args[0])
			if err != nil {
				return err
			}
			handlers := &result.Handlers{Items: []registry.Summary{}}
			if err := getStore(cmd.Context()).Find(opts.Caller, key, args[1], handlers); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), handlers.Items)
		},
	}
}

func suiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "suite <suite id>",
		Short: "List the handlers of an application suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("%w: suite '%s': %w", registry.ErrInvalidArgument, args[0], err)
			}
			handlers := &result.Handlers{Items: []registry.Summary{}}
			if err := getStore(cmd.Context()).FindForSuite(int32(suite), handlers); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), handlers.Items)
		},
	}
}

func valuesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "values <id | types | suffixes | actions>",
		Short: "List the distinct values of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := registry.ParseField(args[0])
			if err != nil {
				return err
			}
			values := result.NewStrings()
			if err := getStore(cmd.Context()).ListValues(opts.Caller, field, values); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), values.Values())
		},
	}
}

func fieldCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "field <id> <field>",
		Short: "Show one field of a handler",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := registry.ParseField(args[1])
			if err != nil {
				return err
			}
			values := result.NewStrings()
			if err := getStore(cmd.Context()).GetHandlerField(args[0], field, values); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), values.Values())
		},
	}
}

func statCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stat",
		Short: "Show the registry file location, size and record count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stat, err := getStore(cmd.Context()).Stat()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stat)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	if err := json.MarshalWrite(w, v, jsontext.WithIndent("  ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
