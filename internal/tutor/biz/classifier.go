package biz

import (
	"regexp"
	"strings"
)

// CasualKind 标识寒暄类问题的类别。
type CasualKind string

const (
	CasualGreeting  CasualKind = "greeting"
	CasualHowAreYou CasualKind = "how_are_you"
	CasualWhoAreYou CasualKind = "who_are_you"
	CasualThanks    CasualKind = "thanks"
	CasualBye       CasualKind = "bye"
	CasualOK        CasualKind = "ok"
)

// casualPattern 将前缀正则映射到寒暄类别。顺序即匹配优先级。
type casualPattern struct {
	kind CasualKind
	re   *regexp.Regexp
}

var casualPatterns = []casualPattern{
	{CasualGreeting, regexp.MustCompile(`^(hi|hello|hey|good morning|good afternoon|good evening|greetings)`)},
	{CasualHowAreYou, regexp.MustCompile(`^(how are you|how's it going|what's up|wassup|sup)`)},
	{CasualWhoAreYou, regexp.MustCompile(`^(who are you|what are you|tell me about yourself)`)},
	{CasualThanks, regexp.MustCompile(`^(thank you|thanks|thank|ty)`)},
	{CasualBye, regexp.MustCompile(`^(bye|goodbye|see you|later)`)},
	{CasualOK, regexp.MustCompile(`^(ok|okay|alright|cool|nice)`)},
}

// casualResponses 各寒暄类别的固定应答。
var casualResponses = map[CasualKind]string{
	CasualGreeting:  "Hello! I'm your AI Tutor, here to help you learn from Andrew Ng's lectures. Feel free to ask me anything about Generative AI, RAG, Fine-tuning, or any topic from the courses!",
	CasualHowAreYou: "I'm doing great, thank you for asking! I'm ready to help you understand any concepts from the lectures. What would you like to learn about today?",
	CasualWhoAreYou: "I'm an AI-powered tutor based on Andrew Ng's teaching style. I can help you understand concepts from the Generative AI courses by answering your questions using the lecture transcripts. How can I assist you?",
	CasualThanks:    "You're very welcome! If you have more questions, I'm always here to help. Keep learning!",
	CasualBye:       "Goodbye! Feel free to come back anytime you have questions. Happy learning!",
	CasualOK:        "Great! If you have any questions about the course material, just ask away!",
}

// Classify 判断问题是否为寒暄类。
// 匹配时返回对应类别和 true，否则返回空类别和 false。
// 问题先转小写并去除首尾空白，再按模式顺序做前缀匹配。
func Classify(question string) (CasualKind, bool) {
	normalized := strings.ToLower(strings.TrimSpace(question))
	for _, p := range casualPatterns {
		if p.re.MatchString(normalized) {
			return p.kind, true
		}
	}
	return "", false
}

// CasualResponse 返回某寒暄类别的固定应答。
func CasualResponse(kind CasualKind) string {
	return casualResponses[kind]
}
