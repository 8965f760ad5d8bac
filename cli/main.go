package cli

import (
	"context"
	"fmt"
	"time"

	"pitlane/config"
	"pitlane/ext"
	"pitlane/logger"
	"pitlane/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const resolveTimeout = 10 * time.Minute

type Args struct {
	URLs           []string
	FlatPlaylist   bool
	ListFormats    bool
	ListExtractors bool
	Stats          bool
	NoCache        bool
	DebugDump      bool
	Concurrency    int
	LogLevel       string
	ExtractorArgs  []string
}

func NewRootCommand(args *Args) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pitlane [URL...]",
		Short:         "Resolve video pages into metadata records",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) > 0 || args.ListExtractors || args.Stats {
				return nil
			}
			return fmt.Errorf("you must provide at least one URL")
		},
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			args.URLs = cmdArgs
			return Run(cmd, args)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&args.FlatPlaylist, "flat-playlist", false, "Do not resolve playlist entries")
	f.BoolVarP(&args.ListFormats, "list-formats", "F", false, "Print the formats of each video instead of its metadata")
	f.BoolVar(&args.ListExtractors, "list-extractors", false, "Print the available extractors")
	f.BoolVar(&args.Stats, "stats", false, "Print cache statistics")
	f.BoolVar(&args.NoCache, "no-cache", false, "Do not read or write the metadata cache")
	f.BoolVar(&args.DebugDump, "dump-pages", false, "Write fetched responses to the debug directory")
	f.IntVarP(&args.Concurrency, "concurrency", "N", 0, "Playlist entries resolved at once (default from CONCURRENCY)")
	f.StringVarP(&args.LogLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	f.StringArrayVar(&args.ExtractorArgs, "extractor-args", nil, "Extractor argument as codename:key=value, e.g. formulae:source=webpage")

	return cmd
}

func Run(cmd *cobra.Command, args *Args) error {
	if args.LogLevel != "" {
		logger.SetLevel(args.LogLevel)
	}
	if args.DebugDump {
		config.Env.DebugDump = true
	}
	for _, raw := range args.ExtractorArgs {
		if err := ApplyExtractorArg(raw); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if args.ListExtractors {
		return PrintExtractors(out)
	}
	if args.Stats {
		if err := PrintStats(out); err != nil {
			return err
		}
		if len(args.URLs) == 0 {
			return nil
		}
	}

	opts := &ext.ResolveOptions{
		FlatPlaylist: args.FlatPlaylist,
		Concurrency:  args.Concurrency,
		NoCache:      args.NoCache,
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	var failed int
	for _, url := range args.URLs {
		ctx, cancel := context.WithTimeout(parent, resolveTimeout)
		response, err := ext.Resolve(ctx, url, opts)
		cancel()
		if err != nil {
			zap.S().Debugf("%s: %v", url, err)
			zap.S().Errorf("%s: %v", url, util.GetLastError(err))
			failed++
			continue
		}
		if args.ListFormats {
			err = PrintFormats(out, response)
		} else {
			err = PrintResponse(out, response)
		}
		if err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d urls failed", failed, len(args.URLs))
	}
	return nil
}
