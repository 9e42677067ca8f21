package domain

// permission classifies who may traverse an edge. Dispatch happens here and
// nowhere else; handlers and services never re-derive role rules.
type permission int

const (
	// permSales: any known role may traverse.
	permSales permission = iota
	// permApprover: Business Development / BIU / Admin only.
	permApprover
	// permAdmin: admin-only edges (reactivation out of terminal states).
	permAdmin
)

type edge struct {
	to   Status
	perm permission
}

// spokeTransitions is the legal edge set for Dealer/Vendor leads.
// The KYC Pending -> Partial Docs edge is the docs-submission edge: the
// machine substitutes Awaiting Docs Approval for non-approver actors.
var spokeTransitions = map[Status][]edge{
	StatusUnassigned: {
		{StatusInvited, permSales},
	},
	StatusInvited: {
		{StatusKYCPending, permSales},
		{StatusNotReachable, permSales},
		{StatusNotInterested, permSales},
		{StatusUnassigned, permSales},
	},
	StatusNotReachable: {
		{StatusInvited, permSales},
		{StatusNotInterested, permSales},
		{StatusUnassigned, permSales},
	},
	StatusKYCPending: {
		{StatusPartialDocs, permSales},
		{StatusFollowUp, permSales},
		{StatusRejected, permSales},
		{StatusNotInterested, permSales},
		{StatusUnassigned, permSales},
	},
	StatusAwaitingDocsApproval: {
		{StatusPartialDocs, permApprover},
		{StatusFollowUp, permApprover},
	},
	StatusPartialDocs: {
		{StatusAgreementPending, permSales},
		{StatusFollowUp, permSales},
		{StatusRejected, permSales},
	},
	StatusFollowUp: {
		{StatusKYCPending, permSales},
		{StatusNotInterested, permSales},
		{StatusRejected, permSales},
		{StatusUnassigned, permSales},
	},
	StatusAgreementPending: {
		{StatusActive, permSales},
		{StatusFollowUp, permSales},
		{StatusRejected, permSales},
	},
	StatusActive: {
		{StatusInactive, permSales},
	},
	StatusInactive: {
		{StatusActive, permSales},
		{StatusClosed, permSales},
	},
	StatusRejected: {
		{StatusFollowUp, permAdmin},
	},
	StatusNotInterested: {
		{StatusFollowUp, permAdmin},
	},
	StatusClosed: {
		{StatusFollowUp, permAdmin},
	},
}

// anchorTransitions is the legal edge set for Anchor leads. Bulk-created
// anchors enter at Pending Approval and are released into the pool (or
// rejected) by an approver.
var anchorTransitions = map[Status][]edge{
	StatusUnassigned: {
		{StatusLead, permSales},
	},
	StatusPendingApproval: {
		{StatusUnassigned, permApprover},
		{StatusRejected, permApprover},
	},
	StatusLead: {
		{StatusInitialContact, permSales},
		{StatusRejected, permSales},
		{StatusUnassigned, permSales},
	},
	StatusInitialContact: {
		{StatusProposal, permSales},
		{StatusRejected, permSales},
		{StatusUnassigned, permSales},
	},
	StatusProposal: {
		{StatusNegotiation, permSales},
		{StatusRejected, permSales},
	},
	StatusNegotiation: {
		{StatusOnboarding, permSales},
		{StatusRejected, permSales},
	},
	StatusOnboarding: {
		{StatusActive, permSales},
	},
	StatusActive: {
		{StatusArchived, permSales},
	},
	StatusArchived: {
		{StatusActive, permSales},
	},
	StatusRejected: {
		{StatusLead, permAdmin},
	},
}

func transitionsFor(kind Kind) map[Status][]edge {
	if kind.IsSpoke() {
		return spokeTransitions
	}
	return anchorTransitions
}
