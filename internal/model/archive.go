package model

import (
	"fmt"
	"regexp"
)

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ArchiveItem is one batch of archived tasks recorded under a YYYY-MM
// bucket. The month is the month the archival run happened, not the month
// the tasks were created in.
type ArchiveItem struct {
	Month string `json:"month"`
	Tasks []Task `json:"tasks"`
}

// Validate checks the month format.
func (a ArchiveItem) Validate() error {
	if !monthRe.MatchString(a.Month) {
		return fmt.Errorf("%w: archive month must be YYYY-MM, got %q", ErrValidation, a.Month)
	}
	return nil
}
