package enums

// EnquiryStatus tracks the manual fulfillment workflow for an enquiry.
type EnquiryStatus string

const (
	EnquiryStatusNew       EnquiryStatus = "NEW"
	EnquiryStatusContacted EnquiryStatus = "CONTACTED"
	EnquiryStatusQuoted    EnquiryStatus = "QUOTED"
	EnquiryStatusClosed    EnquiryStatus = "CLOSED"
	EnquiryStatusCancelled EnquiryStatus = "CANCELLED"
)

func (s EnquiryStatus) String() string {
	return string(s)
}

func (s EnquiryStatus) IsValid() bool {
	switch s {
	case EnquiryStatusNew, EnquiryStatusContacted, EnquiryStatusQuoted,
		EnquiryStatusClosed, EnquiryStatusCancelled:
		return true
	}
	return false
}

// allowedTransitions encodes the staff workflow: forward through
// NEW -> CONTACTED -> QUOTED -> CLOSED, with CANCELLED reachable from any
// non-terminal state.
var allowedTransitions = map[EnquiryStatus][]EnquiryStatus{
	EnquiryStatusNew:       {EnquiryStatusContacted, EnquiryStatusQuoted, EnquiryStatusCancelled},
	EnquiryStatusContacted: {EnquiryStatusQuoted, EnquiryStatusClosed, EnquiryStatusCancelled},
	EnquiryStatusQuoted:    {EnquiryStatusClosed, EnquiryStatusCancelled},
}

// CanTransitionTo reports whether the target status is reachable from s.
func (s EnquiryStatus) CanTransitionTo(target EnquiryStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
