package faq

import "testing"

func TestMatchTopics(t *testing.T) {
	cases := []struct {
		input string
		want  Topic
	}{
		{"clinic ka TIMING kya hai", Timing},
		{"क्लिनिक कब खुला है", Timing},
		{"Doctor kaun hai", Doctor},
		{"डॉक्टर साहब कौन हैं", Doctor},
		{"what are the Fees", Fees},
		{"कितना खर्चा होगा", Fees},
		{"address bhej do", Address},
		{"clinic कहां है", Address},
		{"Ravi", None},
		{"   ", None},
	}

	for _, tc := range cases {
		if got := Match(tc.input); got != tc.want {
			t.Fatalf("Match(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMatchPriorityOrder(t *testing.T) {
	// timing is checked before fees
	if got := Match("fees aur timing dono batao"); got != Timing {
		t.Fatalf("expected timing to win, got %q", got)
	}
	if got := Match("doctor ka address"); got != Doctor {
		t.Fatalf("expected doctor to win, got %q", got)
	}
}

func TestTopicsOrder(t *testing.T) {
	got := Topics()
	want := []Topic{Timing, Doctor, Fees, Address}
	if len(got) != len(want) {
		t.Fatalf("unexpected topics: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topic %d = %q, want %q", i, got[i], want[i])
		}
	}
}
