package ops

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jacksmith/shelf/internal/model"
)

// ValidationErrorType represents the type of validation error.
type ValidationErrorType string

const (
	ValidationErrorDuplicateID     ValidationErrorType = "duplicate_id"
	ValidationErrorOrderGap        ValidationErrorType = "order_gap"
	ValidationErrorDuplicateOrder  ValidationErrorType = "duplicate_order"
	ValidationErrorMissingRequired ValidationErrorType = "missing_required"
)

// ValidationError represents a data integrity issue.
type ValidationError struct {
	Type    ValidationErrorType
	ItemID  string
	Folder  string
	Message string
	Details []string // Additional context (e.g., the bucket's orders)
}

func (e ValidationError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("%s: %s - %s", folderLabel(e.Folder), e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s - %s", e.ItemID, e.Type, e.Message)
}

// Fixable reports whether Repair can resolve the issue.
func (e ValidationError) Fixable() bool {
	return e.Type != ValidationErrorMissingRequired
}

// ValidationFix represents an auto-repair action taken.
type ValidationFix struct {
	Type        ValidationErrorType
	ItemID      string
	Description string
}

// Validate checks the collection for data integrity issues.
func Validate(links []model.Link) []ValidationError {
	var errors []ValidationError

	// Check for duplicate IDs
	seenIDs := make(map[uuid.UUID]bool)
	for _, l := range links {
		if seenIDs[l.ID] {
			errors = append(errors, ValidationError{
				Type:    ValidationErrorDuplicateID,
				ItemID:  l.ID.String(),
				Message: "duplicate link ID",
			})
		}
		seenIDs[l.ID] = true
	}

	// Check each bucket holds exactly 0..n-1
	for _, key := range bucketKeys(links) {
		idx := bucketIndices(links, key)
		label := links[idx[0]].FolderName()

		orders := make([]int, len(idx))
		counts := make(map[int]int)
		for i, j := range idx {
			orders[i] = links[j].Order
			counts[links[j].Order]++
		}

		for order, n := range counts {
			if n > 1 {
				errors = append(errors, ValidationError{
					Type:    ValidationErrorDuplicateOrder,
					Folder:  label,
					Message: fmt.Sprintf("order %d used by %d links", order, n),
					Details: formatOrders(orders),
				})
			}
		}

		for i := range idx {
			if counts[i] == 0 {
				errors = append(errors, ValidationError{
					Type:    ValidationErrorOrderGap,
					Folder:  label,
					Message: fmt.Sprintf("orders are not contiguous from 0 to %d", len(idx)-1),
					Details: formatOrders(orders),
				})
				break
			}
		}
	}

	// Check for missing required fields
	for _, l := range links {
		if strings.TrimSpace(l.URL) == "" {
			errors = append(errors, ValidationError{
				Type:    ValidationErrorMissingRequired,
				ItemID:  l.ID.String(),
				Message: "link missing required field: url",
			})
		}
	}

	sort.SliceStable(errors, func(i, j int) bool {
		if errors[i].Folder != errors[j].Folder {
			return errors[i].Folder < errors[j].Folder
		}
		return errors[i].Type < errors[j].Type
	})

	return errors
}

// Repair gives duplicated ids fresh values and renumbers every bucket,
// then saves. It returns the fixes applied; nothing is saved when the
// collection was already consistent.
func (m *Manager) Repair() []ValidationFix {
	m.mu.Lock()
	fixes := repairLinks(m.links)
	if len(fixes) > 0 {
		m.saveLocked()
	}
	m.mu.Unlock()

	if len(fixes) > 0 {
		m.logger.Info().Int("fixes", len(fixes)).Msg("Repaired links")
		m.changed()
	}
	return fixes
}

func repairLinks(links []model.Link) []ValidationFix {
	var fixes []ValidationFix

	seenIDs := make(map[uuid.UUID]bool)
	for i := range links {
		l := &links[i]
		if seenIDs[l.ID] {
			old := l.ID
			l.ID = uuid.New()
			fixes = append(fixes, ValidationFix{
				Type:        ValidationErrorDuplicateID,
				ItemID:      old.String(),
				Description: fmt.Sprintf("assigned new ID %s", l.ID),
			})
		}
		seenIDs[l.ID] = true
	}

	for _, key := range bucketKeys(links) {
		idx := bucketIndices(links, key)
		changed := false
		for rank, j := range idx {
			if links[j].Order != rank {
				links[j].Order = rank
				changed = true
			}
		}
		if changed {
			fixes = append(fixes, ValidationFix{
				Type:        ValidationErrorOrderGap,
				Description: fmt.Sprintf("renumbered %s", folderLabel(links[idx[0]].FolderName())),
			})
		}
	}

	return fixes
}

// bucketKeys returns the distinct folder keys, unfiled first.
func bucketKeys(links []model.Link) []string {
	seen := make(map[string]bool)
	var keys []string
	for i := range links {
		k := links[i].Key()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func folderLabel(name string) string {
	if name == "" {
		return "(unfiled)"
	}
	return fmt.Sprintf("folder %q", name)
}

func formatOrders(orders []int) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = fmt.Sprint(o)
	}
	return out
}
