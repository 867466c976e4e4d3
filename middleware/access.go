package middleware

import "github.com/maxigo-bot/keygram"

// Whitelist returns a middleware that only lets the given users through.
// Updates with an unknown sender (0) are dropped.
func Whitelist(userIDs ...int64) keygram.MiddlewareFunc {
	allowed := idSet(userIDs)

	return func(next keygram.HandlerFunc) keygram.HandlerFunc {
		return func(c keygram.Context) error {
			if _, ok := allowed[c.Sender()]; !ok {
				return nil
			}
			return next(c)
		}
	}
}

// Blacklist returns a middleware that drops updates from the given users.
// Updates with an unknown sender (0) pass through.
func Blacklist(userIDs ...int64) keygram.MiddlewareFunc {
	blocked := idSet(userIDs)

	return func(next keygram.HandlerFunc) keygram.HandlerFunc {
		return func(c keygram.Context) error {
			if _, ok := blocked[c.Sender()]; ok {
				return nil
			}
			return next(c)
		}
	}
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id != 0 {
			set[id] = struct{}{}
		}
	}
	return set
}
