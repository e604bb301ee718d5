package constants

// Session
const (
	SessionCookieName = "tracker_session"
	ContextKeyUserID  = "user_id"
)

// Password policy. The signup error message historically advertises
// 8 characters while the enforced minimum is 6; both are kept as-is.
const (
	MinPasswordLength = 6
)

// Journal
const (
	JournalEntryLimit   = 20
	JournalTimeLayout   = "2006-01-02 15:04"
	JournalGeneralGroup = "共通"
)

// Task due dates are submitted as calendar dates.
const DueDateLayout = "2006-01-02"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
