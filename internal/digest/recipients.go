package digest

import (
	"context"

	"gorm.io/gorm"

	"github.com/beancode/signalist-backend/internal/data/repos/users"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

// DirectoryReader loads the send-eligible recipient set from the user store.
type DirectoryReader struct {
	log   *logger.Logger
	db    *gorm.DB
	users users.UserRepo
}

func NewDirectoryReader(log *logger.Logger, db *gorm.DB, repo users.UserRepo) *DirectoryReader {
	return &DirectoryReader{
		log:   log.With("component", "DirectoryReader"),
		db:    db,
		users: repo,
	}
}

// Load returns every recipient with a non-empty name and email. A store
// failure is logged and yields an empty set: the caller ends the run with
// the defined empty outcome rather than an error.
func (d *DirectoryReader) Load(ctx context.Context) []Recipient {
	rows, err := d.users.ListEmailEligible(ctx, d.db)
	if err != nil {
		d.log.Error("Recipient directory unavailable", "error", err)
		return []Recipient{}
	}

	out := make([]Recipient, 0, len(rows))
	for _, u := range rows {
		if u == nil || !EligibleRecipient(u.Name, u.Email) {
			continue
		}
		out = append(out, RecipientFromUser(u))
	}

	d.log.Info("Loaded recipients", "total_rows", len(rows), "eligible", len(out))
	return out
}
