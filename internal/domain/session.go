package domain

// Keys of the per-customer persisted session state.
const (
	SessionKeyLastVisitedPage = "lastVisitedPage"
	SessionKeyCart            = "cart"
)
