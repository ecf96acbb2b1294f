package dedup

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"newsdesk/internal/config"
	"newsdesk/internal/store"
)

// Deduper clusters a batch of resolved items into a unique set by fuzzy
// title similarity. The batch may be the union of a fresh fetch and the
// prior archive for the same topic.
//
// O(n²) per batch: fine for the tens of items one call produces, not for
// re-deduplicating a multi-thousand-item archive in one go.
type Deduper struct {
	cfg config.Dedup
}

// New creates a deduper with the given thresholds.
func New(cfg config.Dedup) *Deduper {
	return &Deduper{cfg: cfg}
}

// Unique returns the deduplicated batch, ordered by content length
// descending (callers re-sort for display). Richer-content items are the
// canonical representative of a story: the batch is scanned longest
// first, and each candidate is dropped if its title is too similar to an
// already-accepted one.
//
// Personnel/appointment announcements about the same event vary more in
// phrasing, so when both titles classify as personnel news the similarity
// threshold drops to the aggressive value.
func (d *Deduper) Unique(items []store.NewsItem) []store.NewsItem {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]store.NewsItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].FullContent) > len(sorted[j].FullContent)
	})

	var accepted []store.NewsItem
	for _, candidate := range sorted {
		duplicate := false
		candidatePersonnel := d.isPersonnel(candidate.Title)

		for _, kept := range accepted {
			ratio := Similarity(candidate.Title, kept.Title)

			if candidatePersonnel && d.isPersonnel(kept.Title) && ratio >= d.cfg.PersonnelThreshold {
				duplicate = true
				break
			}
			if ratio >= d.cfg.GeneralThreshold {
				duplicate = true
				break
			}
		}

		if !duplicate {
			accepted = append(accepted, candidate)
		}
	}

	return accepted
}

// Similarity returns the SequenceMatcher ratio of two titles, computed
// over runes so multi-byte scripts compare correctly.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func (d *Deduper) isPersonnel(title string) bool {
	for _, keyword := range d.cfg.PersonnelKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}
