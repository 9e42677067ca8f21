package domain

// Status is a lead pipeline status. Which values are legal depends on the
// lead kind; the per-kind sets below are closed.
type Status string

const (
	// StatusUnassigned is shared by both kinds and is the only status a
	// lead without an assignee may hold.
	StatusUnassigned Status = "Unassigned Lead"

	// Spoke (Dealer/Vendor) pipeline.
	StatusInvited              Status = "Invited"
	StatusNotReachable         Status = "Not Reachable"
	StatusKYCPending           Status = "KYC Pending"
	StatusAwaitingDocsApproval Status = "Awaiting Docs Approval"
	StatusPartialDocs          Status = "Partial Docs"
	StatusFollowUp             Status = "Follow Up"
	StatusAgreementPending     Status = "Agreement Pending"
	StatusInactive             Status = "Inactive"
	StatusNotInterested        Status = "Not Interested"
	StatusClosed               Status = "Closed"

	// Anchor pipeline.
	StatusPendingApproval Status = "Pending Approval"
	StatusLead            Status = "Lead"
	StatusInitialContact  Status = "Initial Contact"
	StatusProposal        Status = "Proposal"
	StatusNegotiation     Status = "Negotiation"
	StatusOnboarding      Status = "Onboarding"
	StatusArchived        Status = "Archived"

	// Shared by both kinds.
	StatusActive   Status = "Active"
	StatusRejected Status = "Rejected"
)

var spokeStatuses = map[Status]struct{}{
	StatusUnassigned:           {},
	StatusInvited:              {},
	StatusNotReachable:         {},
	StatusKYCPending:           {},
	StatusAwaitingDocsApproval: {},
	StatusPartialDocs:          {},
	StatusFollowUp:             {},
	StatusAgreementPending:     {},
	StatusActive:               {},
	StatusInactive:             {},
	StatusRejected:             {},
	StatusNotInterested:        {},
	StatusClosed:               {},
}

var anchorStatuses = map[Status]struct{}{
	StatusUnassigned:      {},
	StatusPendingApproval: {},
	StatusLead:            {},
	StatusInitialContact:  {},
	StatusProposal:        {},
	StatusNegotiation:     {},
	StatusOnboarding:      {},
	StatusActive:          {},
	StatusArchived:        {},
	StatusRejected:        {},
}

// spokeTerminal statuses accept no transitions except the admin-only
// reactivation edge.
var spokeTerminal = map[Status]struct{}{
	StatusRejected:      {},
	StatusNotInterested: {},
	StatusClosed:        {},
}

var anchorTerminal = map[Status]struct{}{
	StatusRejected: {},
}

// IsKnownStatus reports whether status belongs to the kind's closed set.
func IsKnownStatus(kind Kind, status Status) bool {
	if kind.IsSpoke() {
		_, ok := spokeStatuses[status]
		return ok
	}
	_, ok := anchorStatuses[status]
	return ok
}

// IsTerminal reports whether the status is terminal for the kind.
func IsTerminal(kind Kind, status Status) bool {
	if kind.IsSpoke() {
		_, ok := spokeTerminal[status]
		return ok
	}
	_, ok := anchorTerminal[status]
	return ok
}
