// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inp tokenizes block-structured mesh input decks into keyword
// blocks and routes them into typed collections.
//
// A deck is a sequence of keyword lines (*Element, Type=S4R, Elset=WHEEL),
// data lines, and ** comment lines. Parsing groups each keyword line with
// the lines that follow it; classification stores the resulting blocks by
// collection and index key so extraction never rescans the source text.
package inp

import (
	"strconv"
	"strings"
)

// Block is one keyword block: the keyword line plus every line up to the
// next keyword line. Lines keep the raw text, keyword line included, so a
// block can be re-emitted verbatim. Blocks are not modified once built.
type Block struct {
	// Keyword is the lowercased first token of the keyword line.
	Keyword string
	// Options maps lowercased option keys to their values. Values keep
	// their original case.
	Options map[string]string
	// Lines holds the raw lines of the block, keyword line first.
	Lines []string
	// NodeIDs is the set of node ids referenced by an element block's
	// data lines. It is nil for every other keyword.
	NodeIDs map[int]struct{}
}

// NewBlock builds a Block from a parsed keyword line and its raw lines.
// Element blocks get their referenced node set computed up front.
func NewBlock(keyword string, options map[string]string, lines []string) *Block {
	b := &Block{Keyword: keyword, Options: options, Lines: lines}
	if r, ok := blockRoutes[keyword]; ok && r.collection == collElements {
		b.NodeIDs = elementNodeIDs(lines)
	}
	return b
}

// Option returns the value stored under the lowercased key, or "" when
// the option is absent.
func (b *Block) Option(key string) string {
	return b.Options[key]
}

// DataNodeIDs scans every comma-separated field of every data line and
// returns the integers found. No column is skipped; a field counts only
// when it is entirely digits and fits in an int. Blank and comment lines
// are ignored.
func (b *Block) DataNodeIDs() map[int]struct{} {
	ids := make(map[int]struct{})
	for _, line := range dataLines(b.Lines) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "**") {
			continue
		}
		for _, field := range strings.Split(line, ",") {
			field = strings.TrimSpace(field)
			if !isDigits(field) {
				continue
			}
			id, err := strconv.Atoi(field)
			if err != nil {
				continue
			}
			ids[id] = struct{}{}
		}
	}
	return ids
}

// parseKeywordLine splits a keyword line into its lowercased keyword and
// key=value options. It reports ok=false for comment lines, data lines,
// and marker lines carrying no tokens. Option values keep their case;
// tokens without = (bare flags such as generate) survive only in the raw
// line.
func parseKeywordLine(line string) (keyword string, options map[string]string, ok bool) {
	if !strings.HasPrefix(line, "*") || strings.HasPrefix(line, "**") {
		return "", nil, false
	}

	var tokens []string
	for _, tok := range strings.Split(line[1:], ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return "", nil, false
	}

	keyword = strings.ToLower(tokens[0])
	options = make(map[string]string)
	for _, tok := range tokens[1:] {
		key, value, found := strings.Cut(tok, "=")
		if !found {
			continue
		}
		options[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return keyword, options, true
}

// elementNodeIDs collects node references from element data lines. The
// first field of each line is the element id and is skipped; fields that
// do not parse as integers are skipped individually.
func elementNodeIDs(lines []string) map[int]struct{} {
	ids := make(map[int]struct{})
	for _, line := range dataLines(lines) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}
		fields := strings.Split(line, ",")
		for _, field := range fields[1:] {
			id, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				continue
			}
			ids[id] = struct{}{}
		}
	}
	return ids
}

// dataLines returns the lines after the keyword line.
func dataLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	return lines[1:]
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
