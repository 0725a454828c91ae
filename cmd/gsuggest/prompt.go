package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/atinylittleshell/gsuggest/internal/selections"
	"github.com/atinylittleshell/gsuggest/internal/termtitle"
	"github.com/atinylittleshell/gsuggest/pkg/gline"
	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoURL = errors.New("no suggestion endpoint configured: pass --url or set url in the config file")

func (c *cli) promptCmd() *cobra.Command {
	promptCmd := &cobra.Command{
		Use:   "prompt",
		Short: "Read one line with suggestions and print it",
		Args:  cobra.NoArgs,
		RunE:  c.promptHandler,
	}

	promptCmd.Flags().String("url", "", "endpoint prefix the query is appended to")
	promptCmd.Flags().String("options", "", `JSON options, e.g. '{"matchWith":"title","delay":200}'`)
	promptCmd.Flags().String("template", "", "item template, e.g. '<% title %> + (<% year %>)'")
	promptCmd.Flags().String("prompt", "", "prompt text")
	promptCmd.Flags().Int("height", 0, "number of candidates shown at once")
	promptCmd.Flags().Bool("mouse", false, "enable mouse selection")
	promptCmd.Flags().Bool("no-record", false, "do not record the selection")

	return promptCmd
}

func (c *cli) promptHandler(cmd *cobra.Command, args []string) error {
	if !c.isTerminal() {
		return errors.New("prompt needs an interactive terminal")
	}

	cfg := c.cfg
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		cfg.URL = url
	}
	if template, _ := cmd.Flags().GetString("template"); template != "" {
		cfg.Template = template
	}
	if prompt, _ := cmd.Flags().GetString("prompt"); prompt != "" {
		cfg.Prompt = prompt
	}
	if height, _ := cmd.Flags().GetInt("height"); height > 0 {
		cfg.AssistantHeight = height
	}
	if mouse, _ := cmd.Flags().GetBool("mouse"); mouse {
		cfg.Mouse = true
	}
	if noRecord, _ := cmd.Flags().GetBool("no-record"); noRecord {
		cfg.Record = false
	}
	if cfg.URL == "" {
		return errNoURL
	}

	blob, _ := cmd.Flags().GetString("options")

	fetcher := suggest.NewHTTPFetcher(cfg.URL)
	fetcher.Header = cfg.Header()

	suggestConfig := suggest.Config{
		Fetcher:  fetcher,
		Options:  cfg.Options,
		Blob:     blob,
		Template: cfg.Template,
		OnEvent: func(e suggest.Event) {
			c.logger.Debug("suggest event", zap.Stringer("event", e))
		},
	}

	options := gline.NewOptions()
	options.ListHeight = cfg.AssistantHeight
	options.Placeholder = cfg.Placeholder
	options.Mouse = cfg.Mouse

	if cfg.Record {
		manager, err := selections.NewManager(c.selectionsFile())
		if err != nil {
			c.logger.Warn("failed to open selections database", zap.Error(err))
		} else {
			defer func() { _ = manager.Close() }()
			options.Recorder = manager
		}
	}

	title := termtitle.New(cmd.ErrOrStderr(), termtitle.Env{
		Term:        os.Getenv("TERM"),
		TermProgram: os.Getenv("TERM_PROGRAM"),
	})
	title.Set("gsuggest: " + endpointHost(cfg.URL))
	defer title.Reset()

	line, err := c.prompter.Prompt(cfg.Prompt, suggestConfig, c.logger, options)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

// endpointHost returns the host part of rawURL, or rawURL itself when it
// does not parse as an absolute URL.
func endpointHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
