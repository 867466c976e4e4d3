package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"hash"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/sha3"

	"github.com/maxigo-bot/keygram"
	"github.com/maxigo-bot/keygram/maxapi"
	"github.com/maxigo-bot/keygram/middleware"
	"github.com/maxigo-bot/keygram/redisstore"
	"github.com/maxigo-bot/keygram/telegram"
)

func runBot(cmd *cobra.Command, _ []string) error {
	logger := logrus.New()
	level, err := logrus.ParseLevel(flagOrViperString(cmd, "log-level", "log_level"))
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kind := strings.ToLower(strings.TrimSpace(flagOrViperString(cmd, "transport", "transport")))
	token, err := resolveToken(cmd, kind)
	if err != nil {
		return err
	}
	transport, err := newTransport(kind, token, logger)
	if err != nil {
		return err
	}

	digest, err := digestByName(flagOrViperString(cmd, "digest", "digest"))
	if err != nil {
		return err
	}

	opts := []keygram.Option{
		keygram.WithTransport(transport),
		keygram.WithLogger(logger),
		keygram.WithLongPolling(flagOrViperInt(cmd, "poll-timeout", "poll_timeout")),
		keygram.WithSignLength(flagOrViperInt(cmd, "sign-length", "sign_length")),
		keygram.WithDigest(digest),
		keygram.WithParseMode("HTML"),
		keygram.WithSuppressed(keygram.KindParse),
	}
	if id := flagOrViperInt64(cmd, "bot-id", "bot_id"); id != 0 {
		opts = append(opts, keygram.WithBotID(id))
	}
	if secret := flagOrViperString(cmd, "secret", "secret"); secret != "" {
		opts = append(opts, keygram.WithSecret(secret))
	}
	if url := strings.TrimSpace(flagOrViperString(cmd, "redis-url", "redis_url")); url != "" {
		store, client, err := redisstore.Dial(ctx, url)
		if err != nil {
			return err
		}
		defer client.Close()
		opts = append(opts, keygram.WithCursorStore(store))
	}

	bot, err := keygram.New(token, opts...)
	if err != nil {
		return err
	}

	bot.Use(middleware.Recover(), middleware.Logger())
	if allowed := flagOrViperInt64Slice(cmd, "allow", "allow"); len(allowed) > 0 {
		bot.Use(middleware.Whitelist(allowed...))
	}
	bot.On(`^/start\b`, start)
	if err := bot.RegisterFunc(nextFox); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"bot_id": bot.ID(), "transport": kind}).Info("fox bot running")
	return bot.Start(ctx)
}

func newTransport(kind, token string, logger logrus.FieldLogger) (keygram.Transport, error) {
	switch kind {
	case "telegram":
		return telegram.New(token)
	case "max":
		return maxapi.New(token, maxapi.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown transport %q", kind)
	}
}

func digestByName(name string) (func() hash.Hash, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha256":
		return sha256.New, nil
	case "sha3", "sha3-256":
		return sha3.New256, nil
	default:
		return nil, fmt.Errorf("unknown digest %q", name)
	}
}
