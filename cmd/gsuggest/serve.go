package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/atinylittleshell/gsuggest/internal/endpoint"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (c *cli) serveCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Serve candidates from a file as a suggestion endpoint",
		Args:    cobra.NoArgs,
		RunE:    c.serveHandler,
	}

	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().String("candidates", "", "JSON or YAML file with the candidates")
	serveCmd.Flags().String("field", "", "record field matched against the query")
	serveCmd.Flags().String("array-name", "", "wrap responses as {\"<array-name>\": [...]}")
	serveCmd.Flags().Int("limit", 0, "maximum number of candidates per response")
	serveCmd.Flags().Bool("watch", false, "reload the candidates file when it changes")

	return serveCmd
}

func (c *cli) serveHandler(cmd *cobra.Command, args []string) error {
	serve := c.cfg.Serve
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		serve.Addr = addr
	}
	if candidates, _ := cmd.Flags().GetString("candidates"); candidates != "" {
		serve.Candidates = candidates
	}
	if field, _ := cmd.Flags().GetString("field"); field != "" {
		serve.Field = field
	}
	if arrayName, _ := cmd.Flags().GetString("array-name"); arrayName != "" {
		serve.ArrayName = arrayName
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		serve.Limit = limit
	}
	if serve.Candidates == "" {
		return errors.New("no candidates file: pass --candidates or set serve.candidates in the config file")
	}

	records, err := endpoint.LoadRecords(serve.Candidates, serve.Field)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", serve.Addr)
	if err != nil {
		return err
	}

	server := endpoint.NewServer(records, endpoint.Options{
		Field:     serve.Field,
		ArrayName: serve.ArrayName,
		Limit:     serve.Limit,
	}, c.logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving %d candidates on http://%s/search?q=\n", len(records), ln.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(ctx, ln)
	})
	if watch, _ := cmd.Flags().GetBool("watch"); watch || serve.Watch {
		g.Go(func() error {
			return server.Watch(ctx, serve.Candidates)
		})
	}
	return g.Wait()
}
