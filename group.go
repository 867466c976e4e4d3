package keygram

// Group represents a handler group with an isolated middleware stack.
// Handlers registered in a group inherit the group's middleware
// in addition to global Use-middleware. Group handlers share the bot's
// callback names and text ordering.
type Group struct {
	bot        *Bot
	middleware []MiddlewareFunc
}

// Use appends middleware to the group's middleware stack. It applies to
// handlers registered after the call.
func (g *Group) Use(middleware ...MiddlewareFunc) {
	g.middleware = append(g.middleware, middleware...)
}

// On registers a text handler within this group.
func (g *Group) On(pattern any, h HandlerFunc, m ...MiddlewareFunc) {
	g.bot.texts.On(pattern, h, g.chain(m)...)
}

// Register binds a callback handler to name within this group.
func (g *Group) Register(name string, fn CallbackFunc, m ...MiddlewareFunc) error {
	return g.bot.registry.Register(name, fn, g.chain(m)...)
}

// chain returns group middleware followed by per-handler middleware.
func (g *Group) chain(m []MiddlewareFunc) []MiddlewareFunc {
	out := make([]MiddlewareFunc, 0, len(g.middleware)+len(m))
	out = append(out, g.middleware...)
	return append(out, m...)
}
