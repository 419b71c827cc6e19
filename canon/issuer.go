package canon

import "strconv"

// IdentifierIssuer hands out sequential blank node labels (prefix0,
// prefix1, ...) in the order they are requested. A label, once issued for an
// identifier, is never reassigned.
type IdentifierIssuer struct {
	prefix  string
	counter int
	issued  map[string]string
	order   []string
}

// NewIdentifierIssuer creates an issuer for labels with the given prefix.
func NewIdentifierIssuer(prefix string) *IdentifierIssuer {
	return &IdentifierIssuer{prefix: prefix, issued: make(map[string]string)}
}

// Issue returns the label for existing, issuing the next one if needed.
func (i *IdentifierIssuer) Issue(existing string) string {
	if id, ok := i.issued[existing]; ok {
		return id
	}
	id := i.prefix + strconv.Itoa(i.counter)
	i.counter++
	i.issued[existing] = id
	i.order = append(i.order, existing)
	return id
}

// Issued returns the label already issued for existing.
func (i *IdentifierIssuer) Issued(existing string) (string, bool) {
	id, ok := i.issued[existing]
	return id, ok
}

// Order returns the identifiers in the order labels were issued.
func (i *IdentifierIssuer) Order() []string { return i.order }

// Len returns the number of labels issued.
func (i *IdentifierIssuer) Len() int { return len(i.order) }

// Clone returns an independent copy.
func (i *IdentifierIssuer) Clone() *IdentifierIssuer {
	c := &IdentifierIssuer{
		prefix:  i.prefix,
		counter: i.counter,
		issued:  make(map[string]string, len(i.issued)),
		order:   make([]string, len(i.order)),
	}
	for k, v := range i.issued {
		c.issued[k] = v
	}
	copy(c.order, i.order)
	return c
}
