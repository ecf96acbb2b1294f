package dedup

import (
	"strings"
	"testing"

	"newsdesk/internal/config"
	"newsdesk/internal/store"
)

func testDeduper() *Deduper {
	return New(config.Dedup{
		GeneralThreshold:   0.6,
		PersonnelThreshold: 0.4,
		PersonnelKeywords:  []string{"[인사]", "인사", "프로필", "선임", "승진", "취임", "임명"},
	})
}

func item(title, content string) store.NewsItem {
	return store.NewsItem{Topic: "한국캐피탈", Title: title, FullContent: content}
}

func TestSimilarityIdentical(t *testing.T) {
	if r := Similarity("같은 제목", "같은 제목"); r != 1.0 {
		t.Errorf("expected ratio 1.0, got %v", r)
	}
}

func TestUniqueGeneralThreshold(t *testing.T) {
	// Title similarity 0.867: same story, different headline wording.
	a := item("한국캐피탈 3분기 실적 발표", strings.Repeat("긴 본문 ", 50))
	b := item("한국캐피탈 3분기 실적 개선", strings.Repeat("짧은 본문 ", 10))

	unique := testDeduper().Unique([]store.NewsItem{b, a})
	if len(unique) != 1 {
		t.Fatalf("expected 1 item, got %d", len(unique))
	}
	if unique[0].Title != a.Title {
		t.Errorf("expected the longer-content item kept, got %q", unique[0].Title)
	}
}

func TestUniquePersonnelAggressiveThreshold(t *testing.T) {
	// Similarity 0.571: below the general threshold, above the personnel
	// one, and both titles classify as personnel news.
	a := item("한국캐피탈 사장단 인사 단행", strings.Repeat("본문 ", 60))
	b := item("한국캐피탈 새 대표 선임", strings.Repeat("본문 ", 20))

	unique := testDeduper().Unique([]store.NewsItem{a, b})
	if len(unique) != 1 {
		t.Fatalf("expected personnel pair merged into 1, got %d", len(unique))
	}
	if unique[0].Title != a.Title {
		t.Errorf("expected the longer-content item kept, got %q", unique[0].Title)
	}
}

func TestUniqueNonPersonnelPairInAggressiveBandRetained(t *testing.T) {
	// Similarity 0.593, the same band as the personnel pair above, but
	// neither title is personnel news, so both survive.
	a := item("한국캐피탈 새 채권 발행", strings.Repeat("본문 ", 60))
	b := item("한국캐피탈 자금 조달 확대", strings.Repeat("본문 ", 20))

	unique := testDeduper().Unique([]store.NewsItem{a, b})
	if len(unique) != 2 {
		t.Fatalf("expected both non-personnel items retained, got %d", len(unique))
	}
}

func TestUniqueOrderedByContentLength(t *testing.T) {
	short := item("짧은 기사 제목입니다", "본문")
	long := item("전혀 다른 내용의 긴 보도자료", strings.Repeat("본문 ", 100))

	unique := testDeduper().Unique([]store.NewsItem{short, long})
	if len(unique) != 2 {
		t.Fatalf("expected 2 items, got %d", len(unique))
	}
	if unique[0].Title != long.Title {
		t.Errorf("expected content-length ordering, got %q first", unique[0].Title)
	}
}

func TestUniqueEmptyBatch(t *testing.T) {
	if got := testDeduper().Unique(nil); got != nil {
		t.Errorf("expected nil for empty batch, got %v", got)
	}
}

// Four raw entries, two stories: a personnel pair merged under the
// aggressive threshold and an earnings pair merged under the general
// threshold, each keeping its longer-content representative.
func TestUniqueEndToEndScenario(t *testing.T) {
	earningsA := item("한국캐피탈 3분기 실적 발표", strings.Repeat("실적 본문 ", 80))
	earningsB := item("한국캐피탈 3분기 실적 개선", strings.Repeat("실적 본문 ", 60))
	personnelA := item("한국캐피탈 사장단 인사 단행", strings.Repeat("인사 본문 ", 40))
	personnelB := item("한국캐피탈 새 대표 선임", strings.Repeat("인사 본문 ", 20))

	unique := testDeduper().Unique([]store.NewsItem{
		personnelB, earningsA, personnelA, earningsB,
	})

	if len(unique) != 2 {
		t.Fatalf("expected exactly 2 unique items, got %d", len(unique))
	}
	if unique[0].Title != earningsA.Title {
		t.Errorf("expected longer earnings item kept, got %q", unique[0].Title)
	}
	if unique[1].Title != personnelA.Title {
		t.Errorf("expected longer personnel item kept, got %q", unique[1].Title)
	}
}
