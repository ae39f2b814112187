package main

import (
	"testing"

	"github.com/poiesic/commentlens/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestNewSource(t *testing.T) {
	run := func(t *testing.T, args ...string) (retrieval.Source, error) {
		t.Helper()
		var source retrieval.Source
		var sourceErr error
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "retrieval", Value: "actor"},
				&cli.StringFlag{Name: "actor-token"},
				&cli.StringFlag{Name: "actor-id"},
				&cli.StringFlag{Name: "youtube-key"},
				&cli.IntFlag{Name: "max-comments", Value: 2000},
			},
			Action: func(c *cli.Context) error {
				source, sourceErr = newSource(c)
				return nil
			},
		}
		require.NoError(t, app.Run(append([]string{"test"}, args...)))
		return source, sourceErr
	}

	t.Run("actor strategy requires token", func(t *testing.T) {
		_, err := run(t)
		assert.Error(t, err)
	})

	t.Run("actor strategy with token", func(t *testing.T) {
		source, err := run(t, "--actor-token", "tok")
		require.NoError(t, err)
		assert.NotNil(t, source)
	})

	t.Run("pages strategy requires key", func(t *testing.T) {
		_, err := run(t, "--retrieval", "pages")
		assert.Error(t, err)
	})

	t.Run("pages strategy with key", func(t *testing.T) {
		source, err := run(t, "--retrieval", "pages", "--youtube-key", "key")
		require.NoError(t, err)
		assert.NotNil(t, source)
	})

	t.Run("unknown strategy fails", func(t *testing.T) {
		_, err := run(t, "--retrieval", "scrapyard")
		assert.Error(t, err)
	})
}
