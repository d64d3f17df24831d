package domain

// Outcome is the result class of resolving one question.
type Outcome uint8

const (
	// OutcomeNotFound means the queried name is absent from the zone.
	OutcomeNotFound Outcome = iota
	// OutcomeNodata means the name exists but nothing matched the type.
	OutcomeNodata
	// OutcomeSuccess means at least one answer was produced.
	OutcomeSuccess
)

// RCode maps the outcome onto the reply's response code.
func (o Outcome) RCode() RCode {
	if o == OutcomeNotFound {
		return RCodeNXDomain
	}
	return RCodeNoError
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNodata:
		return "nodata"
	default:
		return "notfound"
	}
}

// Resolution is what the resolver hands to the encoder.
type Resolution struct {
	Outcome    Outcome
	Answers    []Answer
	Additional []Answer
}

// Reply is everything the encoder needs to frame a response.
type Reply struct {
	ID         uint16
	RCode      RCode
	Question   Question
	Answers    []Answer
	Additional []Answer
}

// NewReply assembles a reply for query from a resolution.
func NewReply(q Query, res Resolution) Reply {
	return Reply{
		ID:         q.Header.ID,
		RCode:      res.Outcome.RCode(),
		Question:   q.Question,
		Answers:    res.Answers,
		Additional: res.Additional,
	}
}

// NewErrorReply builds a reply with no records, echoing the question.
func NewErrorReply(q Query, rcode RCode) Reply {
	return Reply{
		ID:       q.Header.ID,
		RCode:    rcode,
		Question: q.Question,
	}
}
