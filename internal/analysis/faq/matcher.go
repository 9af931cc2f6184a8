package faq

import "strings"

// Topic names a frequently asked question the receptionist answers outside the intake script.
type Topic string

const (
	None    Topic = ""
	Timing  Topic = "timing"
	Doctor  Topic = "doctor"
	Fees    Topic = "fees"
	Address Topic = "address"
)

type bucket struct {
	topic    Topic
	keywords []string
}

// buckets are checked in order; the first bucket with a hit wins.
var buckets = []bucket{
	{topic: Timing, keywords: []string{"timing", "समय", "खुला"}},
	{topic: Doctor, keywords: []string{"doctor", "डॉक्टर"}},
	{topic: Fees, keywords: []string{"fees", "फीस", "खर्चा"}},
	{topic: Address, keywords: []string{"address", "पता", "कहां"}},
}

// Match returns the first FAQ topic whose keywords appear in text, case-insensitively.
func Match(text string) Topic {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return None
	}

	for _, b := range buckets {
		if ContainsAny(normalized, b.keywords) {
			return b.topic
		}
	}
	return None
}

// Topics lists the known topics in priority order.
func Topics() []Topic {
	out := make([]Topic, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.topic)
	}
	return out
}

// ContainsAny reports whether normalized contains any of the lower-cased keywords.
func ContainsAny(normalized string, keywords []string) bool {
	for _, word := range keywords {
		if word == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(word)) {
			return true
		}
	}
	return false
}
