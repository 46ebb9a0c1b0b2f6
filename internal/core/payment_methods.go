package core

import (
	"strconv"
	"strings"
)

// OnlineRule decides which payment methods go through the online checkout.
// Entries are method ids or case-insensitive method names.
type OnlineRule struct {
	ids   map[int]bool
	names map[string]bool
}

// ParseOnlineRule parses a comma-separated list such as "card" or "card,3".
func ParseOnlineRule(list string) OnlineRule {
	r := OnlineRule{ids: map[int]bool{}, names: map[string]bool{}}
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if id, err := strconv.Atoi(tok); err == nil {
			r.ids[id] = true
			continue
		}
		r.names[strings.ToLower(tok)] = true
	}
	return r
}

func (r OnlineRule) matches(m PaymentMethod) bool {
	return r.ids[m.ID] || r.names[strings.ToLower(strings.TrimSpace(m.Name))]
}

// MethodCatalog is the set of payment methods loaded from the backend with
// IsOnline resolved. It is immutable after construction.
type MethodCatalog struct {
	methods []PaymentMethod
	byID    map[int]PaymentMethod
}

// NewMethodCatalog resolves IsOnline for every method using rule.
func NewMethodCatalog(methods []PaymentMethod, rule OnlineRule) *MethodCatalog {
	c := &MethodCatalog{
		methods: make([]PaymentMethod, 0, len(methods)),
		byID:    make(map[int]PaymentMethod, len(methods)),
	}
	for _, m := range methods {
		m.IsOnline = rule.matches(m)
		c.methods = append(c.methods, m)
		c.byID[m.ID] = m
	}
	return c
}

// All returns the methods in backend order.
func (c *MethodCatalog) All() []PaymentMethod {
	out := make([]PaymentMethod, len(c.methods))
	copy(out, c.methods)
	return out
}

// Lookup returns the method with the given id.
func (c *MethodCatalog) Lookup(id int) (PaymentMethod, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// IsOnline reports whether payments with method id need an online checkout.
func (c *MethodCatalog) IsOnline(id int) bool {
	return c.byID[id].IsOnline
}

// Name returns the display name of method id, or "Method <id>" when unknown.
func (c *MethodCatalog) Name(id int, lang string) string {
	if m, ok := c.byID[id]; ok {
		return m.DisplayName(lang)
	}
	return "Method " + strconv.Itoa(id)
}

// First returns the first method id, or 0 for an empty catalog.
func (c *MethodCatalog) First() int {
	if len(c.methods) == 0 {
		return 0
	}
	return c.methods[0].ID
}

// PaymentLinesFromPayloads builds receipt lines for bills finalized from
// payloads. The printed amount is the full charge including tax, service and
// tips.
func PaymentLinesFromPayloads(payloads []FinalizedPayload, c *MethodCatalog, lang string) []PaymentLine {
	lines := make([]PaymentLine, 0, len(payloads))
	for _, p := range payloads {
		lines = append(lines, PaymentLine{
			MethodName: c.Name(p.PaymentMethodID, lang),
			Amount:     p.TotalCost(),
			Reference:  p.TransactionNumber,
		})
	}
	return lines
}
