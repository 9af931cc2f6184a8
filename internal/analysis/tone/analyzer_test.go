package tone

import "testing"

func TestAnalyzeConfirmationIsCheerful(t *testing.T) {
	decision := Analyze("कल सुबह 10 बजे", "परफेक्ट जी! आपका appointment confirm कर दिया गया है। ✅")
	if decision.Tone != Cheerful {
		t.Fatalf("expected cheerful tone, got %s", decision.Tone)
	}
	if decision.Scale < 1 || decision.Scale > 5 {
		t.Fatalf("tone scale out of range: %f", decision.Scale)
	}
}

func TestAnalyzeFarewellIsGrateful(t *testing.T) {
	decision := Analyze("नहीं", "धन्यवाद और शुक्रिया 🙏")
	if decision.Tone != Grateful {
		t.Fatalf("expected grateful tone, got %s", decision.Tone)
	}
}

func TestAnalyzeNeutralReplyFollowsWorriedCaller(t *testing.T) {
	decision := Analyze("मुझे बहुत दर्द है", "ok")
	if decision.Tone != Reassuring {
		t.Fatalf("expected reassuring tone, got %s", decision.Tone)
	}
	if decision.Scale > 3.5 {
		t.Fatalf("expected capped scale, got %f", decision.Scale)
	}
}

func TestAnalyzeEmptyIsNeutral(t *testing.T) {
	decision := Analyze("", "")
	if decision.Tone != Neutral || decision.Scale != 3 {
		t.Fatalf("unexpected decision: %+v", decision)
	}
}
