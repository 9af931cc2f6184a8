package tone

import (
	"math"
	"strings"
)

// Label 表示语音播报时使用的语气。
type Label string

const (
	Neutral    Label = "neutral"
	Warm       Label = "warm"
	Grateful   Label = "grateful"
	Reassuring Label = "reassuring"
	Attentive  Label = "attentive"
	Cheerful   Label = "cheerful"
)

// Decision 给出语气识别结果以及推荐强度。
type Decision struct {
	Tone  Label   `json:"tone"`
	Scale float32 `json:"scale"`
	Score int     `json:"score"`
}

var keywordBuckets = map[Label][]string{
	Warm: {
		"नमस्ते", "जी", "बहुत अच्छा", "welcome", "स्वागत", "आप कैसे हैं", "कोई बात नहीं", "मदद",
	},
	Grateful: {
		"धन्यवाद", "शुक्रिया", "thank", "thanks", "🙏", "dhanyavad", "shukriya",
	},
	Reassuring: {
		"दर्द", "परेशान", "तकलीफ", "चिंता", "डर", "pain", "worried", "समस्या", "problem", "बीमार",
		"ठीक हो", "नोट कर", "समझ गई", "experienced",
	},
	Attentive: {
		"बताइए", "क्या", "कब", "कौन", "?", "please", "कृपया", "नाम", "उम्र",
	},
	Cheerful: {
		"परफेक्ट", "perfect", "confirm", "✅", "बढ़िया", "great", "अच्छा दिन",
	},
}

var punctuationBoost = map[Label]int{
	Cheerful: 2,
	Warm:     1,
}

// Analyze 根据来电者的话与接待员回复推断播报语气。
func Analyze(userUtterance, aiUtterance string) Decision {
	userScore := scoreText(userUtterance)
	aiScore := scoreText(aiUtterance)

	finalScore := aiScore
	// 回复缺少明显语气时，按来电者情绪选择安抚或关注。
	if finalScore.Score == 0 && userScore.Score > 0 {
		finalScore = coerceFromUser(userScore)
	}

	if finalScore.Score == 0 {
		return Decision{Tone: Neutral, Scale: 3, Score: 0}
	}

	scale := 2 + float32(finalScore.Score)/4
	if finalScore.Tone == Cheerful {
		scale += 1
	}
	if finalScore.Tone == Reassuring || finalScore.Tone == Attentive {
		scale = float32(math.Min(3.5, float64(scale)))
	}

	if scale < 1 {
		scale = 1
	}
	if scale > 5 {
		scale = 5
	}

	return Decision{Tone: finalScore.Tone, Scale: scale, Score: finalScore.Score}
}

func scoreText(text string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Decision{Tone: Neutral}
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if word == "" {
				continue
			}
			if strings.Contains(normalized, strings.ToLower(word)) {
				scores[label] += 3
			}
		}
	}

	if exclamations := strings.Count(text, "!"); exclamations > 0 {
		scores[Cheerful] += exclamations * punctuationBoost[Cheerful]
		scores[Warm] += exclamations * punctuationBoost[Warm]
	}

	bestLabel := Neutral
	bestScore := 0
	for _, label := range ranked {
		if s := scores[label]; s > bestScore {
			bestScore = s
			bestLabel = label
		}
	}

	if bestScore == 0 {
		return Decision{Tone: Neutral}
	}
	return Decision{Tone: bestLabel, Score: bestScore}
}

// ranked 在得分相同时决定优先顺序。
var ranked = []Label{Grateful, Cheerful, Reassuring, Warm, Attentive}

func coerceFromUser(user Decision) Decision {
	switch user.Tone {
	case Reassuring:
		return Decision{Tone: Reassuring, Score: user.Score}
	case Grateful, Cheerful:
		return Decision{Tone: Warm, Score: user.Score}
	case Attentive:
		return Decision{Tone: Attentive, Score: user.Score}
	default:
		return user
	}
}
