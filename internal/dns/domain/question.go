package domain

// Question is the single question carried by a query.
type Question struct {
	Name  string
	Type  RRType
	Class RRClass
}

// Query is a decoded request: its header plus the first question.
type Query struct {
	Header   Header
	Question Question
}

// CacheKey returns a key derived from the question's name and type.
// Class is not part of the key because only IN is served.
func (q Question) CacheKey() string {
	return q.Name + "|" + q.Type.String()
}
