package parser

import (
	"strings"
	"testing"
)

func TestClassifyHeading(t *testing.T) {
	cases := []struct {
		line       string
		wantOK     bool
		wantTitle  string
		wantNumber string // "" means no number
	}{
		{"3. Payment Terms", true, "Payment Terms", "3"},
		{"Section 4 - Confidentiality", true, "Confidentiality", "4"},
		{"ARTICLE IV GOVERNING LAW", true, "GOVERNING LAW", "IV"},
		{"2.3 Fees and Expenses", true, "Fees and Expenses", "2.3"},
		{"GOVERNING LAW", true, "Governing Law", ""},
		{"Governing Law", true, "Governing Law", ""},
		{"TERM & TERMINATION", true, "Term & Termination", ""},
		{"35. The Buyer shall pay the price", false, "", ""},
		{"12 months after termination", false, "", ""},
		{"I agree to the terms", false, "", ""},
		{"Deliveries occur at 9:30 daily.", false, "", ""},
		{"1. Payment is due.", false, "", ""},
		{"The parties agree as follows", false, "", ""},
	}
	for _, c := range cases {
		h, ok := classifyHeading(c.line)
		if ok != c.wantOK {
			t.Errorf("classifyHeading(%q) ok = %v, want %v", c.line, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if h.title != c.wantTitle {
			t.Errorf("classifyHeading(%q) title = %q, want %q", c.line, h.title, c.wantTitle)
		}
		gotNumber := ""
		if h.number != nil {
			gotNumber = *h.number
		}
		if gotNumber != c.wantNumber {
			t.Errorf("classifyHeading(%q) number = %q, want %q", c.line, gotNumber, c.wantNumber)
		}
		if c.wantNumber == "" && h.number != nil {
			t.Errorf("classifyHeading(%q) number should be absent", c.line)
		}
	}
}

func TestLikelyHeading_SentenceNumberThreshold(t *testing.T) {
	if likelyHeading("35", "The Buyer shall pay the price") {
		t.Error("numbered sentence at 35 should be rejected")
	}
	if likelyHeading("30", "Upon termination the Supplier stops work") {
		t.Error("numbered sentence at the threshold should be rejected")
	}
	if !likelyHeading("29", "The Buyer") {
		t.Error("numbers below the threshold keep sentence-start titles")
	}
	if !likelyHeading("35", "Payment Terms") {
		t.Error("high numbers with ordinary titles are headings")
	}
	if likelyHeading("99999999999999999999", "The Buyer shall pay") {
		t.Error("numerals beyond int range should count as past the threshold")
	}
	if !likelyHeading("99999999999999999999", "Payment Terms") {
		t.Error("huge numerals with ordinary titles are headings")
	}
	if !likelyHeading("IV", "The Services") {
		t.Error("roman numerals are not subject to the numeric threshold")
	}
}

func TestLikelyHeading_Length(t *testing.T) {
	long := strings.Repeat("Word ", 25) + "End"
	if likelyHeading("1", long) {
		t.Errorf("title over %d runes should be rejected", maxHeadingRunes)
	}

	thirteen := "Scope Of The Services Provided By The Supplier Under This Master Services Agreement"
	if n := len(strings.Fields(thirteen)); n != 13 {
		t.Fatalf("fixture has %d words", n)
	}
	if likelyHeading("1", thirteen) {
		t.Error("13 mixed-case words should be rejected")
	}

	capsThirteen := strings.ToUpper(thirteen)
	if !likelyHeading("1", capsThirteen) {
		t.Error("13 capitalised words should be accepted")
	}

	fifteen := "Scope Of The Services Provided By The Supplier Under This Master Services Agreement And Schedules"
	if likelyHeading("1", strings.ToUpper(fifteen)) {
		t.Error("15 words without a colon should be rejected")
	}
}

func TestLikelyHeading_Rejections(t *testing.T) {
	cases := []struct {
		number, title string
	}{
		{"9:30", "Meeting"},
		{"1", ""},
		{"1", "Payment is due."},
		{"1", "payment terms"},
	}
	for _, c := range cases {
		if likelyHeading(c.number, c.title) {
			t.Errorf("likelyHeading(%q, %q) = true, want false", c.number, c.title)
		}
	}
}
