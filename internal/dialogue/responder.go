package dialogue

import (
	"fmt"
	"strings"

	"github.com/lumivian/receptionist/backend/internal/analysis/faq"
	"github.com/lumivian/receptionist/backend/internal/model/appointment"
	"github.com/lumivian/receptionist/backend/internal/model/clinic"
)

var (
	acknowledgeKeywords = []string{"ठीक", "अच्छा", "good"}
	negativeKeywords    = []string{"नहीं", "no", "bas"}
)

const (
	replyGreetingAck   = "बहुत अच्छा जी! मैं आपका appointment book करना चाहती हूं। पहले आप अपना नाम बताइए जी?"
	replyGreetingOther = "कोई बात नहीं जी। मैं आपकी मदद कर सकती हूं। आपका appointment book करने के लिए पहले अपना नाम बताइए जी?"
	replyAskProblem    = "जी बिल्कुल, मैं नोट कर लेती हूं। अब बताइए आपको क्या समस्या है? जैसे बाल झड़ना, त्वचा की problem, या कोई दर्द?"
	replyAskTime       = "समझ गई जी। आपको कब का appointment चाहिए? कौन सा दिन और समय सही रहेगा? (जैसे: कल सुबह 10 बजे, या इस हफ्ते शाम को)"
	replyFollowUp      = "जी बताइए, मैं आपकी और कैसे मदद कर सकती हूं?"
	replyFallback      = "जी, मैं आपकी बात समझ गई। कृपया थोड़ा और बताइए?"
)

// Result is the outcome of one user turn.
type Result struct {
	Reply    string
	State    State
	Topic    faq.Topic
	Captured appointment.Field
	// Ignored is set for blank input; no reply should be sent and State is unchanged.
	Ignored bool
}

// Advanced reports whether the turn moved the script forward.
func (r Result) Advanced(prev State) bool {
	return r.State.Step != prev.Step
}

type transition struct {
	field appointment.Field
	next  Step
	reply func(info clinic.Info, data appointment.Data, normalized string) string
}

var transitions = map[Step]transition{
	Greeting: {
		next: CollectName,
		reply: func(_ clinic.Info, _ appointment.Data, normalized string) string {
			if faq.ContainsAny(normalized, acknowledgeKeywords) {
				return replyGreetingAck
			}
			return replyGreetingOther
		},
	},
	CollectName: {
		field: appointment.FieldName,
		next:  CollectAge,
		reply: func(_ clinic.Info, data appointment.Data, _ string) string {
			return fmt.Sprintf("धन्यवाद %s जी! आपकी उम्र क्या है?", data.Name)
		},
	},
	CollectAge: {
		field: appointment.FieldAge,
		next:  CollectProblem,
		reply: func(clinic.Info, appointment.Data, string) string { return replyAskProblem },
	},
	CollectProblem: {
		field: appointment.FieldProblem,
		next:  CollectTime,
		reply: func(clinic.Info, appointment.Data, string) string { return replyAskTime },
	},
	CollectTime: {
		field: appointment.FieldPreferredTime,
		next:  Closing,
		reply: func(_ clinic.Info, data appointment.Data, _ string) string {
			return fmt.Sprintf("परफेक्ट जी! आपका appointment %s के लिए confirm कर दिया गया है। ✅\n\n"+
				"Clinic का address और timing WhatsApp/SMS पर भेज दिया जाएगा। %s जी, appointment से 10 मिनट पहले पहुंच जाइएगा।\n\n"+
				"क्या कोई और सवाल है आपका?", data.PreferredTime, data.Name)
		},
	},
}

// Greet returns the opening line spoken when a call starts.
func Greet(info clinic.Info) string {
	return fmt.Sprintf("नमस्ते जी! मैं %s से बोल रही हूं। आप कैसे हैं जी?", info.Name)
}

// AnswerFAQ returns the canned answer for a topic.
func AnswerFAQ(info clinic.Info, topic faq.Topic) string {
	switch topic {
	case faq.Timing:
		return fmt.Sprintf("हमारे clinic का समय %s है जी। आपको कब का appointment चाहिए?", info.Timing)
	case faq.Doctor:
		return fmt.Sprintf("यहां %s जी देखते हैं। वो बहुत experienced हैं जी। आपकी क्या समस्या है?", info.Doctor)
	case faq.Fees:
		return fmt.Sprintf("पहली visit के लिए %s है जी। आपका नाम और समस्या बताइए?", info.Fees)
	case faq.Address:
		return fmt.Sprintf("Clinic का address है: %s। Location WhatsApp पर भी भेज दूंगी जी।", info.Address)
	}
	return ""
}

// Respond maps the current state and the caller's text to the receptionist's reply and next state.
// FAQ topics take priority and never change state; otherwise the step's transition applies.
func Respond(info clinic.Info, state State, input string) Result {
	text := strings.TrimSpace(input)
	if text == "" {
		return Result{State: state, Ignored: true}
	}
	normalized := strings.ToLower(text)

	if topic := faq.Match(normalized); topic != faq.None {
		return Result{Reply: AnswerFAQ(info, topic), State: state, Topic: topic}
	}

	if state.Step == Closing {
		if faq.ContainsAny(normalized, negativeKeywords) {
			return Result{Reply: farewell(info), State: state}
		}
		return Result{Reply: replyFollowUp, State: state}
	}

	t, ok := transitions[state.Step]
	if !ok {
		return Result{Reply: replyFallback, State: state}
	}

	next := state
	if t.field != "" {
		// stored as typed; first write wins and a restored state may already hold the value
		next.Appointment = state.Appointment.With(t.field, input)
	}
	next.Step = t.next

	return Result{
		Reply:    t.reply(info, next.Appointment, normalized),
		State:    next,
		Captured: t.field,
	}
}

func farewell(info clinic.Info) string {
	return fmt.Sprintf("बहुत अच्छा जी! आपको %s में देखने का इंतजार रहेगा। धन्यवाद और अच्छा दिन रहे! 🙏", info.Name)
}
