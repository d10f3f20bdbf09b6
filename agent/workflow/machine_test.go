package workflow

import (
	"errors"
	"testing"
)

func TestAdvanceSingleStep(t *testing.T) {
	t.Parallel()

	p := NewProgressRecord()
	p.MarkInProgress(SectionClientInformation)

	// Text matches the current section's trigger and keywords belonging to
	// sections further ahead; only one step may be taken.
	text := "Now that we have your details, are you married? Later we will discuss your children and assets."
	next, advanced, err := Advance(p, SectionClientInformation, text)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if !advanced || next != SectionMaritalStatus {
		t.Fatalf("Advance() = %q, advanced=%v, want MARITAL_STATUS", next, advanced)
	}
	if p[SectionClientInformation] != StatusCompleted {
		t.Fatalf("completed section status = %q", p[SectionClientInformation])
	}
	if p[SectionMaritalStatus] != StatusInProgress {
		t.Fatalf("next section status = %q", p[SectionMaritalStatus])
	}
	if p[SectionFamilyInformation] != StatusNotStarted {
		t.Fatal("machine cascaded past the next section")
	}
}

func TestAdvanceNoKeywordNoTransition(t *testing.T) {
	t.Parallel()

	p := NewProgressRecord()
	next, advanced, err := Advance(p, SectionClientInformation, "Please tell me your full legal name.")
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if advanced || next != SectionClientInformation {
		t.Fatalf("Advance() = %q, advanced=%v, want no transition", next, advanced)
	}
	if p[SectionClientInformation] == StatusCompleted {
		t.Fatal("section completed without a keyword match")
	}
}

func TestAdvanceForwardOnly(t *testing.T) {
	t.Parallel()

	order := SectionNames()
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	p := NewProgressRecord()
	current := FirstSection()
	texts := []string{
		"are you married or single?",
		"do you have any children?",
		"let's talk about your assets",
		"who should inherit your estate?",
		"should we name a guardian for the minor children?",
		"who will serve as executor?",
		"any funeral or burial wishes?",
		"let's review the summary",
		"thanks, we are done here",
	}
	for _, text := range texts {
		next, _, err := Advance(p, current, text)
		if err != nil {
			t.Fatalf("Advance(%q) error = %v", current, err)
		}
		if rank[next] < rank[current] {
			t.Fatalf("cursor moved backward: %q -> %q", current, next)
		}
		if rank[next] > rank[current]+1 {
			t.Fatalf("cursor skipped sections: %q -> %q", current, next)
		}
		current = next
	}
	if current != SectionReviewAndCompletion {
		t.Fatalf("final section = %q, want REVIEW_AND_COMPLETION", current)
	}
}

func TestAdvanceTerminalSectionInert(t *testing.T) {
	t.Parallel()

	p := NewProgressRecord()
	next, advanced, err := Advance(p, SectionReviewAndCompletion, "review complete finalize summary executor assets")
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if advanced || next != SectionReviewAndCompletion {
		t.Fatalf("terminal section transitioned to %q", next)
	}
	if p[SectionReviewAndCompletion] == StatusCompleted {
		t.Fatal("terminal section was marked completed")
	}
}

func TestAdvanceUnknownSection(t *testing.T) {
	t.Parallel()

	p := NewProgressRecord()
	next, advanced, err := Advance(p, "NOT_A_SECTION", "married")
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("Advance() error = %v, want ErrUnknownSection", err)
	}
	if advanced || next != "NOT_A_SECTION" {
		t.Fatal("corrupted cursor must not transition")
	}
}

func TestPercentComplete(t *testing.T) {
	t.Parallel()

	p := NewProgressRecord()
	if got := p.PercentComplete(); got != 0 {
		t.Fatalf("fresh PercentComplete() = %v, want 0", got)
	}

	last := 0.0
	for _, name := range SectionNames() {
		if name == SectionReviewAndCompletion {
			break
		}
		p.MarkCompleted(name)
		got := p.PercentComplete()
		if got < last {
			t.Fatalf("percent decreased: %v -> %v", last, got)
		}
		last = got
	}
	if last != 100 {
		t.Fatalf("all non-terminal sections completed, percent = %v, want 100", last)
	}
}

func TestMarkCompletedIdempotent(t *testing.T) {
	t.Parallel()

	p := NewProgressRecord()
	p.MarkCompleted(SectionAssets)
	p.MarkCompleted(SectionAssets)
	if got := p.CompletedSections(); len(got) != 1 || got[0] != SectionAssets {
		t.Fatalf("CompletedSections() = %v", got)
	}

	// in_progress never demotes a completed section.
	p.MarkInProgress(SectionAssets)
	if p[SectionAssets] != StatusCompleted {
		t.Fatalf("completed section demoted to %q", p[SectionAssets])
	}
}

func TestSectionGraphShape(t *testing.T) {
	t.Parallel()

	names := SectionNames()
	for i, name := range names {
		sec, ok := LookupSection(name)
		if !ok {
			t.Fatalf("LookupSection(%q) not found", name)
		}
		if i == len(names)-1 {
			if sec.Next != "" || len(sec.Keywords) != 0 {
				t.Fatalf("terminal section %q must have no next and no keywords", name)
			}
			continue
		}
		if sec.Next != names[i+1] {
			t.Fatalf("section %q next = %q, want %q", name, sec.Next, names[i+1])
		}
	}
}
