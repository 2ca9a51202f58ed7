package digest

import (
	"strings"

	types "github.com/beancode/signalist-backend/internal/domain"
	"github.com/beancode/signalist-backend/internal/platform/finnhub"
)

// MaxArticles caps the number of items in any recipient's bundle.
const MaxArticles = 6

// Recipient is a directory entry eligible to receive a digest.
type Recipient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Bundle is the per-recipient set of articles gathered before summarization.
// Items holds at most MaxArticles entries and may be empty when both the
// scoped and fallback fetches failed.
type Bundle struct {
	Recipient Recipient         `json:"recipient"`
	Items     []finnhub.Article `json:"items"`
}

// Summary is a recipient's summarized digest. Text == "" means
// summarization failed or produced nothing usable; such summaries are never
// dispatched.
type Summary struct {
	Recipient Recipient `json:"recipient"`
	Text      string    `json:"text"`
}

// Absent reports whether the summary has no usable text.
func (s Summary) Absent() bool {
	return strings.TrimSpace(s.Text) == ""
}

// RunResult is the externally observable outcome of one run. Per-recipient
// detail never crosses the run boundary; it is only logged.
type RunResult struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// Run result messages.
const (
	MsgNoRecipients = "no recipients"
	MsgDigestSent   = "news summary emails sent"
	MsgWelcomeSent  = "welcome email sent"
)

// EligibleRecipient reports whether a directory record may enter the
// pipeline: both name and email must be present and non-empty.
func EligibleRecipient(name, email string) bool {
	return strings.TrimSpace(name) != "" && strings.TrimSpace(email) != ""
}

// RecipientFromUser projects a user record into a pipeline recipient,
// falling back to the row's native identifier when no external identifier
// was assigned at signup.
func RecipientFromUser(u *types.User) Recipient {
	id := strings.TrimSpace(u.ExternalID)
	if id == "" {
		id = u.ID.String()
	}
	return Recipient{
		ID:    id,
		Name:  u.Name,
		Email: u.Email,
	}
}
