package digest

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/beancode/signalist-backend/internal/domain"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestEligibleRecipient(t *testing.T) {
	cases := []struct {
		name, email string
		want        bool
	}{
		{"A", "a@x.com", true},
		{"", "a@x.com", false},
		{"A", "", false},
		{"", "", false},
		{"   ", "a@x.com", false},
		{"A", "   ", false},
	}
	for _, c := range cases {
		if got := EligibleRecipient(c.name, c.email); got != c.want {
			t.Fatalf("EligibleRecipient(%q, %q) = %v, want %v", c.name, c.email, got, c.want)
		}
	}
}

func TestRecipientFromUserIDFallback(t *testing.T) {
	rowID := uuid.New()

	withExternal := RecipientFromUser(&types.User{ID: rowID, ExternalID: "ext-1", Name: "A", Email: "a@x.com"})
	if withExternal.ID != "ext-1" {
		t.Fatalf("expected external id, got %q", withExternal.ID)
	}

	withoutExternal := RecipientFromUser(&types.User{ID: rowID, Name: "A", Email: "a@x.com"})
	if withoutExternal.ID != rowID.String() {
		t.Fatalf("expected row id fallback, got %q", withoutExternal.ID)
	}
}

func TestSummaryAbsent(t *testing.T) {
	if !(Summary{}).Absent() {
		t.Fatalf("empty summary should be absent")
	}
	if !(Summary{Text: "   "}).Absent() {
		t.Fatalf("whitespace summary should be absent")
	}
	if (Summary{Text: "<p>news</p>"}).Absent() {
		t.Fatalf("non-empty summary should not be absent")
	}
}
