// Command plurkcli is a demo client for the Plurk API: it logs in, shows the
// dashboard (profile, unread counts, recent plurks, alerts), optionally posts
// a plurk, and can follow the realtime channel. Fetched plurks can be
// archived to a local SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/blackmichael/go-plurk"
	"github.com/blackmichael/go-plurk/archive"
	"github.com/blackmichael/go-plurk/internal/config"
	"github.com/blackmichael/go-plurk/realtime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var (
		username    string
		password    string
		publicOf    string
		say         string
		qualifier   string
		limit       int
		filter      string
		follow      bool
		match       string
		langs       string
		pretend     bool
		tracePath   string
		archivePath string
	)

	flag.StringVar(&username, "user", cfg.Username, "login name")
	flag.StringVar(&password, "pass", "", "password (prompted when omitted)")
	flag.StringVar(&publicOf, "public", "", "show the public profile of this user instead of logging in")
	flag.StringVar(&say, "say", "", "post a plurk with this content")
	flag.StringVar(&qualifier, "qualifier", "says", "qualifier for -say")
	flag.IntVar(&limit, "limit", 10, "number of recent plurks to fetch")
	flag.StringVar(&filter, "filter", "", "timeline filter (my, responded, private, favorite)")
	flag.BoolVar(&follow, "follow", false, "stay connected to the realtime channel and print new events")
	flag.StringVar(&match, "match", "", "comma-separated keywords; only matching realtime plurks are printed")
	flag.StringVar(&langs, "langs", "", "comma-separated language codes for -match")
	flag.BoolVar(&pretend, "pretend", false, "print what would be done without touching the network")
	flag.StringVar(&tracePath, "trace", cfg.TraceFile, "append request/response traces to this file")
	flag.StringVar(&archivePath, "archive", cfg.ArchivePath, "archive fetched plurks to this SQLite database")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	opts := []plurk.Option{}
	if cfg.Host != "" {
		opts = append(opts, plurk.WithHost(cfg.Host))
	}
	if cfg.Insecure {
		opts = append(opts, plurk.WithInsecure())
	}
	if tracePath != "" {
		traceFile, err := os.OpenFile(tracePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer traceFile.Close()
		opts = append(opts, plurk.WithTraceSink(traceFile))
	}

	client := plurk.NewClient(cfg.APIKey, opts...)
	ctx := context.Background()

	if publicOf != "" {
		if pretend {
			fmt.Printf("would fetch public profile of %s\n", publicOf)
			return nil
		}
		return showPublicProfile(ctx, client, publicOf)
	}

	if username == "" {
		return fmt.Errorf("-user is required (or set PLURK_USERNAME)")
	}

	if pretend {
		fmt.Printf("would log in as %s and fetch %d recent plurks\n", username, limit)
		if say != "" {
			fmt.Printf("would post: %s %q\n", qualifier, say)
		}
		return nil
	}

	if password == "" {
		password, err = promptPassword(username)
		if err != nil {
			return err
		}
	}

	profile, err := client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Printf("logged in as %s (karma %.2f)\n", profile.UserInfo.Name(), profile.UserInfo.Karma)

	var store *archive.Store
	if archivePath != "" {
		store, err = archive.Open(archivePath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer store.Close()
	}

	if say != "" {
		posted, err := client.AddPlurk(ctx, say, qualifier, nil)
		if err != nil {
			return fmt.Errorf("add plurk: %w", err)
		}
		fmt.Printf("posted: %s\n", posted)
	}

	if err := showDashboard(ctx, client, store, limit, plurk.Filter(filter)); err != nil {
		return err
	}

	if follow {
		return followChannel(ctx, client, store, match, langs, logger)
	}

	return client.Logout(ctx)
}

func showPublicProfile(ctx context.Context, client *plurk.Client, nickname string) error {
	profile, err := client.GetPublicProfile(ctx, nickname)
	if err != nil {
		return fmt.Errorf("get public profile: %w", err)
	}

	fmt.Printf("%s — %d friends, %d fans\n",
		profile.UserInfo.Name(), profile.FriendsCount, profile.FansCount)
	for i := range profile.Plurks {
		fmt.Println(&profile.Plurks[i])
	}
	return nil
}

func showDashboard(ctx context.Context, client *plurk.Client, store *archive.Store, limit int, filter plurk.Filter) error {
	counts, err := client.GetUnreadCount(ctx)
	if err != nil {
		return fmt.Errorf("get unread count: %w", err)
	}
	fmt.Printf("unread: %d (mine %d, private %d, responded %d)\n",
		counts.All, counts.My, counts.Private, counts.Responded)

	plurks, users, err := client.GetPlurks(ctx, time.Now(), limit, filter)
	if err != nil {
		return fmt.Errorf("get plurks: %w", err)
	}

	for i := range plurks {
		p := &plurks[i]
		if owner, ok := users[p.OwnerID]; ok {
			fmt.Printf("%s: ", owner.Name())
		}
		fmt.Println(p)

		if p.ResponseCount > 0 && len(p.Responses) == 0 {
			if err := client.GetResponses(ctx, p, 0); err != nil {
				return fmt.Errorf("get responses for plurk %d: %w", p.ID, err)
			}
			for j := range p.Responses {
				fmt.Printf("  %s\n", &p.Responses[j])
			}
		}
	}

	alerts, err := client.GetActiveAlerts(ctx)
	if err != nil {
		return fmt.Errorf("get alerts: %w", err)
	}
	for _, a := range alerts {
		if a.User != nil {
			fmt.Printf("alert: %s from %s\n", a.Type, a.User.Name())
		} else {
			fmt.Printf("alert: %s\n", a.Type)
		}
	}

	if store != nil {
		if err := store.SavePlurks(ctx, plurks); err != nil {
			return fmt.Errorf("archive plurks: %w", err)
		}
		for i := range plurks {
			if len(plurks[i].Responses) == 0 {
				continue
			}
			if err := store.SaveResponses(ctx, plurks[i].ID, plurks[i].Responses); err != nil {
				return fmt.Errorf("archive responses: %w", err)
			}
		}
	}

	return nil
}

func followChannel(ctx context.Context, client *plurk.Client, store *archive.Store, match, langs string, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	handler := &printHandler{store: store, logger: logger}
	if match != "" {
		filter, err := realtime.NewKeywordFilter(splitList(match), splitList(langs))
		if err != nil {
			return fmt.Errorf("build keyword filter: %w", err)
		}
		handler.filter = filter
	}

	subscriber := realtime.NewSubscriber(client, handler, logger)
	if err := subscriber.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("realtime channel: %w", err)
	}
	return nil
}

// printHandler prints realtime events and optionally archives them.
type printHandler struct {
	filter *realtime.KeywordFilter
	store  *archive.Store
	logger *slog.Logger
}

func (h *printHandler) HandlePlurk(ctx context.Context, p *plurk.Plurk) {
	if h.filter != nil && !h.filter.Match(p) {
		return
	}
	fmt.Println(p)

	if h.store != nil {
		if err := h.store.SavePlurks(ctx, []plurk.Plurk{*p}); err != nil {
			h.logger.Error("failed to archive plurk", "plurk_id", p.ID, "error", err)
		}
	}
}

func (h *printHandler) HandleResponse(ctx context.Context, plurkID int64, r *plurk.Response) {
	fmt.Printf("  re %d: %s\n", plurkID, r)

	if h.store != nil {
		if err := h.store.SaveResponses(ctx, plurkID, []plurk.Response{*r}); err != nil {
			h.logger.Error("failed to archive response", "plurk_id", plurkID, "error", err)
		}
	}
}

func promptPassword(username string) (string, error) {
	fmt.Printf("password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
