package rulechain

import (
	"net/url"
	"strconv"
	"strings"
)

// PageLink selects one page of a listing.
type PageLink struct {
	Limit      int    `json:"limit"`
	TextSearch string `json:"textSearch,omitempty"`
	IDOffset   string `json:"idOffset,omitempty"`
	TextOffset string `json:"textOffset,omitempty"`
}

// Query renders the page link as a query string, limit first.
func (p PageLink) Query() string {
	var b strings.Builder
	b.WriteString("limit=")
	b.WriteString(strconv.Itoa(p.Limit))
	add := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteByte('&')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	add("textSearch", p.TextSearch)
	add("idOffset", p.IDOffset)
	add("textOffset", p.TextOffset)
	return b.String()
}

// PageData is one page of results.
type PageData[T any] struct {
	Data         []T       `json:"data"`
	NextPageLink *PageLink `json:"nextPageLink,omitempty"`
	HasNext      bool      `json:"hasNext"`
}
