package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/maxigo-bot/keygram"
)

const foxCount = 124

func foxURL(n int64) string {
	return fmt.Sprintf("https://randomfox.ca/images/%d.jpg", n)
}

func foxCaption(n int64) string {
	return fmt.Sprintf("Your fox, sir! <b>#%d</b>", n)
}

// start handles /start by posting the first fox.
func start(c keygram.Context) error {
	return showFox(c, true, 1)
}

// nextFox is the button handler. Args are (initial bool, fox number).
func nextFox(c keygram.Context, args keygram.Args) error {
	initial, _ := args.Bool(0)
	n, ok := args.Int(1)
	if !ok || n < 1 || n > foxCount {
		n = 1
	}
	return showFox(c, initial, n)
}

func showFox(c keygram.Context, initial bool, n int64) error {
	kb, err := c.Bot().Keyboard().
		CallbackFunc("🦊 New fox", nextFox, false, rand.Int64N(foxCount)+1).
		Option()
	if err != nil {
		return err
	}

	opts := []keygram.SendOption{keygram.WithPhoto(foxURL(n)), kb}
	if initial {
		return c.Reply(foxCaption(n), opts...)
	}
	return c.Edit(foxCaption(n), opts...)
}
