// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"filmgate/internal/bot"
	"filmgate/internal/cli"
	"filmgate/internal/logger"
	"filmgate/internal/store"
	"filmgate/internal/tg"
	"filmgate/internal/util/syncx"
	"filmgate/internal/web"
)

func main() { cli.Main(new(engine)) }

// sessionTTL is how long an abandoned mid-dialogue session survives.
const sessionTTL = 30 * time.Minute

var errNoHost = errors.New("host hasn't been set; set it with the HOST environment variable")

type engine struct {
	init syncx.Lazy[error] // main initialization

	// initialized by doInit
	bot  *bot.Bot
	tgc  *tg.Client
	st   store.Store
	mux  *http.ServeMux
	logf logger.Logf
	me   tg.BotInfo

	// configuration, read-only after initialization
	addr     string
	channel  string
	database string
	host     string
	httpc    *http.Client
	owner    int64
	prod     bool
	tgSecret string
	tgToken  string

	// for tests
	noServerStart bool
	ready         func()
}

func (e *engine) Flags(fs *flag.FlagSet) {
	fs.StringVar(&e.addr, "addr", "localhost:3000", "Listen on `host:port`.")
	fs.BoolVar(&e.prod, "prod", false, "Run in production mode (register the webhook on start).")
}

func (e *engine) Run(ctx context.Context, env *cli.Env) error {
	// Load configuration from environment variables.
	e.tgToken = cmp.Or(e.tgToken, env.Getenv("TG_TOKEN"))
	e.tgSecret = cmp.Or(e.tgSecret, env.Getenv("TG_SECRET"))
	e.channel = cmp.Or(e.channel, env.Getenv("CHANNEL"))
	e.host = cmp.Or(e.host, env.Getenv("HOST"))
	e.database = cmp.Or(e.database, env.Getenv("DATABASE"), "filmgate.db")
	e.owner = cmp.Or(e.owner, parseInt(env.Getenv("OWNER_ID")))
	if port := env.Getenv("PORT"); port != "" {
		e.addr = ":" + port
	}

	e.logf = env.Logf

	// Initialize internal state.
	if err := e.init.Get(func() error {
		return e.doInit(ctx)
	}); err != nil {
		return err
	}
	defer e.st.Close()

	// If running in production mode, set the webhook in Telegram Bot API.
	if e.prod {
		if err := e.setWebhook(ctx); err != nil {
			return err
		}
		e.logf("Running in production mode.")
	} else {
		e.logf("Running in development mode.")
	}

	// Used in tests.
	if e.noServerStart {
		return nil
	}

	return web.ListenAndServe(ctx, &web.ListenAndServeConfig{
		Addr:  e.addr,
		Mux:   e.mux,
		Logf:  e.logf,
		Ready: e.ready,
	})
}

func (e *engine) doInit(ctx context.Context) error {
	if e.tgToken == "" {
		return fmt.Errorf("%w: TG_TOKEN environment variable is not set", cli.ErrInvalidArgs)
	}
	if e.owner == 0 {
		return fmt.Errorf("%w: OWNER_ID environment variable is not set", cli.ErrInvalidArgs)
	}
	if e.channel == "" {
		return fmt.Errorf("%w: CHANNEL environment variable is not set", cli.ErrInvalidArgs)
	}

	if e.httpc == nil {
		e.httpc = &http.Client{Timeout: 10 * time.Second}
	}

	var scrubPairs []string
	for _, val := range []string{e.tgToken, e.tgSecret} {
		if val != "" {
			scrubPairs = append(scrubPairs, val, "[EXPUNGED]")
		}
	}
	var scrubber *strings.Replacer
	if len(scrubPairs) > 0 {
		scrubber = strings.NewReplacer(scrubPairs...)
	}

	e.tgc = tg.New(tg.Config{
		Token:      e.tgToken,
		HTTPClient: e.httpc,
		Scrubber:   scrubber,
	})

	me, err := e.tgc.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("looking up the bot's identity: %w", err)
	}
	e.me = me

	if e.st == nil {
		st, err := store.OpenSQLite(ctx, e.database)
		if err != nil {
			return fmt.Errorf("opening database %q: %w", e.database, err)
		}
		e.st = st
	}

	e.bot = bot.New(bot.Opts{
		Client:      e.tgc,
		Store:       e.st,
		Sessions:    bot.NewSessions(ctx, sessionTTL),
		Logf:        e.logf,
		Secret:      e.tgSecret,
		Owner:       e.owner,
		Channel:     e.channel,
		BotUsername: me.Username,
	})

	e.mux = http.NewServeMux()
	e.mux.HandleFunc("POST /telegram", e.bot.HandleWebhook)
	web.Health(e.mux)

	return nil
}

func (e *engine) setWebhook(ctx context.Context) error {
	if e.host == "" {
		return errNoHost
	}
	u := &url.URL{
		Scheme: "https",
		Host:   e.host,
		Path:   "/telegram",
	}
	return e.tgc.SetWebhook(ctx, u.String(), e.tgSecret)
}

func parseInt(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i
	}
	return 0
}
