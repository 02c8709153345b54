package chargereport

// tokenCursor walks a tokenized line strictly left to right. Parsing never
// backtracks past a committed field; lookahead is done with peek and a
// predicate, consumption with next.
type tokenCursor struct {
	toks []string
	pos  int
}

func newTokenCursor(toks []string) *tokenCursor {
	return &tokenCursor{toks: toks}
}

func (c *tokenCursor) done() bool {
	return c.pos >= len(c.toks)
}

// peek returns the current token without consuming it, or "" when exhausted.
func (c *tokenCursor) peek() string {
	if c.done() {
		return ""
	}
	return c.toks[c.pos]
}

// next consumes and returns the current token, or "" when exhausted.
func (c *tokenCursor) next() string {
	if c.done() {
		return ""
	}
	tok := c.toks[c.pos]
	c.pos++
	return tok
}

// rest returns the unconsumed tail of the token slice.
func (c *tokenCursor) rest() []string {
	if c.done() {
		return nil
	}
	return c.toks[c.pos:]
}
