// Package main implements notectl, a command line front end for the note API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yukikurage/note-api/pkg/client"
	"github.com/yukikurage/note-api/pkg/notestore"
)

const (
	envServer = "NOTECTL_SERVER"
	envToken  = "NOTECTL_TOKEN"
)

var (
	serverURL string
	authToken string
	verbose   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, notestore.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("not logged in: run `notectl login` and export "+envToken))
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "notectl",
	Short:        "Manage notes and labels from the terminal",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr(envServer, "http://localhost:5000"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv(envToken), "bearer token (defaults to $"+envToken+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *client.Client {
	c := client.NewClient(serverURL)
	c.SetAuthToken(authToken)
	return c
}

// openStore returns a store loaded with the caller's notes and labels.
func openStore(ctx context.Context) (*notestore.Store, error) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	store := notestore.New(newClient(), log)
	if err := store.Refresh(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
