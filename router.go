package keygram

import (
	gocontext "context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
)

// ackText is sent with every callback acknowledgement. It is blank so the
// client shows no notification.
const ackText = " "

// route dispatches one update to its handler, acknowledges callbacks and
// notifies the update observer. It never fails: handler errors go to
// OnError and forged or stale callbacks are dropped.
func (b *Bot) route(ctx gocontext.Context, u Update) {
	switch {
	case u.Callback != nil:
		b.routeCallback(ctx, u)
		b.acknowledge(ctx, u.Callback)
	case u.Message != nil && u.Message.Text != "":
		b.routeText(ctx, u)
	}
	b.observe(u)
}

func (b *Bot) routeCallback(ctx gocontext.Context, u Update) {
	data := u.Callback.Data
	if strings.TrimSpace(data) == "" {
		return
	}

	log := b.logger.WithFields(logrus.Fields{"update_id": u.ID, "callback_id": u.Callback.ID})

	var p Payload
	if b.signer != nil {
		var ok bool
		if p, ok = b.signer.Decode(data); !ok {
			log.WithField("signature", p.Signature).Warn("callback signature mismatch, dropping")
			return
		}
	} else {
		p = splitPayload(data)
	}

	if !b.registry.Has(p.Name) {
		log.WithField("handler", p.Name).Debug("no handler for callback")
		return
	}

	args := DecodeArgs(p.Args)
	c := b.newContext(ctx, u, args)
	h := applyMiddleware(func(c Context) error {
		_, err := b.registry.Invoke(c, p.Name, args)
		return err
	}, b.useMiddleware...)
	b.invoke(h, c, p.Name)
}

func (b *Bot) routeText(ctx gocontext.Context, u Update) {
	pattern, h := b.texts.Match(u.Message.Text)
	if h == nil {
		return
	}
	c := b.newContext(ctx, u, nil)
	b.invoke(applyMiddleware(h, b.useMiddleware...), c, pattern)
}

// invoke runs h inline, converting a panic into an error.
func (b *Bot) invoke(h HandlerFunc, c Context, endpoint string) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic recovered: %v\n%s", r, debug.Stack())
			b.handleError(&BotError{Endpoint: endpoint, Err: err}, c, endpoint)
		}
	}()

	if err := h(c); err != nil {
		b.handleError(&BotError{Endpoint: endpoint, Err: err}, c, endpoint)
	}
}

// acknowledge confirms a callback whether or not a handler ran, so the
// client does not keep its loading indicator.
func (b *Bot) acknowledge(ctx gocontext.Context, cb *CallbackEvent) {
	if err := b.transport.AnswerCallback(ctx, cb.ID, ackText); err != nil {
		b.logger.WithField("callback_id", cb.ID).WithError(err).Warn("callback acknowledgement failed")
	}
}

func (b *Bot) observe(u Update) {
	if b.onUpdate == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithField("update_id", u.ID).Errorf("panic in update observer: %v", r)
		}
	}()
	b.onUpdate(u)
}
