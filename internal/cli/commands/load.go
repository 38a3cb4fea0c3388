package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bulkload/internal/config"
	"github.com/leapstack-labs/bulkload/internal/credentials"
	"github.com/leapstack-labs/bulkload/internal/session"
	"github.com/leapstack-labs/bulkload/internal/stage"
	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/dialects/redshift"
	"github.com/leapstack-labs/bulkload/pkg/loader"
	"github.com/leapstack-labs/bulkload/pkg/resource"
)

// NewLoadCmd creates the load command.
func NewLoadCmd() *cobra.Command {
	var (
		table          string
		schema         string
		delimiter      string
		header         string
		naValue        string
		quoteChar      string
		escapeChar     string
		encoding       string
		lineTerminator string
		skipRows       int
		compression    string
		localInfile    bool
	)

	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Append a delimited file to an existing table",
		Long: `Load appends FILE (a local path, an s3:// URI, or an scp-style
host:path spec) to an existing table using the target engine's bulk
loader. The file is relocated automatically when the engine cannot read
it where it lives.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfgFile, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(verbose || cfg.Verbose)

			sess, err := session.Open(ctx, session.Config{
				Type:     cfg.Target.Type,
				Path:     cfg.Target.Path,
				Host:     cfg.Target.Host,
				Port:     cfg.Target.Port,
				Database: cfg.Target.Database,
				User:     cfg.Target.User,
				Password: cfg.Target.Password,
				Schema:   cfg.Target.Schema,
				Options:  cfg.Target.Options,
			}, logger)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if schema == "" {
				schema = cfg.Target.Schema
			}
			tbl := &core.Table{
				Name:    table,
				Schema:  schema,
				Dialect: sess.Dialect(),
				Session: sess,
			}

			opts, err := buildOptions(cmd, delimiter, header, naValue, quoteChar,
				escapeChar, encoding, lineTerminator, skipRows, compression, localInfile)
			if err != nil {
				return err
			}

			stager, err := buildStager(ctx, cfg, logger)
			if err != nil {
				return err
			}
			var conv loader.Converter
			if stager != nil {
				conv = stager
			}

			if sess.Dialect() == "redshift" {
				redshift.SetCredentialProvider(credentials.NewAWSProvider())
			}

			res := resource.FromPath(args[0], core.DialectConfig{})
			meta, err := loader.New(conv, logger).Append(ctx, tbl, res, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s into %s.%s (%d rows, %d columns)\n",
				args[0], meta.Schema, meta.Name, meta.RowCount, len(meta.Columns))
			return nil
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "target table name (required)")
	cmd.Flags().StringVar(&schema, "schema", "", "target schema (default: target config, then engine default)")
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "field delimiter (default comma)")
	cmd.Flags().StringVar(&header, "header", "auto", "whether the file has a header row: true, false, or auto")
	cmd.Flags().StringVar(&naValue, "na-value", "", "token representing NULL")
	cmd.Flags().StringVar(&quoteChar, "quote", "", "quote character")
	cmd.Flags().StringVar(&escapeChar, "escape", "", "escape character")
	cmd.Flags().StringVar(&encoding, "encoding", "", "character encoding")
	cmd.Flags().StringVar(&lineTerminator, "line-terminator", "", "line terminator")
	cmd.Flags().IntVar(&skipRows, "skip-rows", 0, "number of leading rows to skip")
	cmd.Flags().StringVar(&compression, "compression", "", "compression codec for warehouse loads (e.g. gzip)")
	cmd.Flags().BoolVar(&localInfile, "local", false, "use client-side LOAD DATA LOCAL INFILE (mysql)")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func buildOptions(cmd *cobra.Command, delimiter, header, naValue, quoteChar,
	escapeChar, encoding, lineTerminator string, skipRows int,
	compression string, localInfile bool) (core.Options, error) {

	opts := core.Options{
		Delimiter:      delimiter,
		QuoteChar:      quoteChar,
		EscapeChar:     escapeChar,
		Encoding:       encoding,
		LineTerminator: lineTerminator,
		SkipRows:       skipRows,
	}

	switch strings.ToLower(header) {
	case "auto":
		// leave tri-state unknown; the loader infers
	case "true":
		opts.Header = core.Bool(true)
	case "false":
		opts.Header = core.Bool(false)
	default:
		return core.Options{}, fmt.Errorf("invalid --header value %q (want true, false, or auto)", header)
	}

	if cmd.Flags().Changed("na-value") {
		opts.NAValue = core.String(naValue)
	}

	extra := map[string]string{}
	if compression != "" {
		extra["compression"] = compression
	}
	if localInfile {
		extra["local"] = "true"
	}
	if len(extra) > 0 {
		opts.Extra = extra
	}
	return opts, nil
}

// buildStager wires staging backends from config. A nil stager is fine
// when no relocation is ever needed for the target.
func buildStager(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stage.Stager, error) {
	if cfg.Staging == nil {
		return nil, nil
	}
	var (
		s3     *stage.S3
		remote *stage.Remote
		err    error
	)
	if c := cfg.Staging.S3; c != nil && c.Bucket != "" {
		s3, err = stage.OpenS3(ctx, c.Region, c.Bucket, c.Prefix, logger)
		if err != nil {
			return nil, err
		}
	}
	if c := cfg.Staging.Remote; c != nil && c.Host != "" {
		remote = stage.NewRemote(c.Host, c.Dir, logger)
	}
	if s3 == nil && remote == nil {
		return nil, nil
	}
	return stage.New(s3, remote, logger), nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
