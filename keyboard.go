package keygram

// Keyboard builds an inline keyboard whose callback buttons carry encoded,
// signed actions for the bot that built it.
type Keyboard struct {
	bot  *Bot
	rows [][]Button
	err  error
}

// Keyboard starts an empty keyboard with one open row.
func (b *Bot) Keyboard() *Keyboard {
	return &Keyboard{bot: b, rows: [][]Button{nil}}
}

// Callback appends a button that runs the named handler with args.
func (k *Keyboard) Callback(text, name string, args ...any) *Keyboard {
	data, err := k.bot.Action(name, args...)
	if err != nil {
		k.setErr(err)
		return k
	}
	return k.add(Button{Text: text, Data: data})
}

// CallbackFunc appends a button that runs fn, which must have been
// registered with RegisterFunc.
func (k *Keyboard) CallbackFunc(text string, fn CallbackFunc, args ...any) *Keyboard {
	data, err := k.bot.ActionFor(fn, args...)
	if err != nil {
		k.setErr(err)
		return k
	}
	return k.add(Button{Text: text, Data: data})
}

// Text appends a button with no action. Pressing it is acknowledged and
// routes nowhere.
func (k *Keyboard) Text(text string) *Keyboard {
	return k.add(Button{Text: text})
}

// Row closes the current row.
func (k *Keyboard) Row() *Keyboard {
	if len(k.rows[len(k.rows)-1]) > 0 {
		k.rows = append(k.rows, nil)
	}
	return k
}

// Build returns the non-empty rows, or the first encoding error.
func (k *Keyboard) Build() ([][]Button, error) {
	if k.err != nil {
		return nil, k.err
	}
	rows := make([][]Button, 0, len(k.rows))
	for _, r := range k.rows {
		if len(r) > 0 {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// Option builds the keyboard into a SendOption. An encoding error is
// returned alongside.
func (k *Keyboard) Option() (SendOption, error) {
	rows, err := k.Build()
	if err != nil {
		return nil, err
	}
	return WithKeyboard(rows...), nil
}

func (k *Keyboard) add(btn Button) *Keyboard {
	last := len(k.rows) - 1
	k.rows[last] = append(k.rows[last], btn)
	return k
}

func (k *Keyboard) setErr(err error) {
	if k.err == nil {
		k.err = err
	}
}
