package main

import "io"

// tokenKind distinguishes the two token shapes the tokenizer can produce.
type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenOther
)

// token is one lexical unit read from the input stream: either a run of
// identifier bytes, or a single non-identifier byte (including
// whitespace bytes, which are tokens in their own right).
type token struct {
	text string
	kind tokenKind
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// scanToken reads one token from the engine's input stream. Returns
// io.EOF (unwrapped) if the stream is exhausted before any byte of a new
// token is read.
func (e *Engine) scanToken() (token, error) {
	c, err := e.in.ReadByte()
	if err != nil {
		return token{}, err
	}

	if !isIdentStart(c) {
		return token{text: string(c), kind: tokenOther}, nil
	}

	buf := []byte{c}
	for {
		c, err := e.in.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if !isIdentCont(c) {
			if pberr := e.in.PushByte(c); pberr != nil {
				return token{}, pberr
			}
			break
		}
		buf = append(buf, c)
	}
	return token{text: string(buf), kind: tokenIdent}, nil
}

func isWhitespace(t token) bool {
	return t.kind == tokenOther && len(t.text) == 1 &&
		(t.text[0] == ' ' || t.text[0] == '\t' || t.text[0] == '\n' || t.text[0] == '\r')
}
