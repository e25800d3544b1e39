// Package prompt serves the daily reflection prompt.
package prompt

import (
	"crypto/md5"
	"math/big"
	"time"
)

// dailyPrompts rotates at 00:00 UTC; the same prompt is shown to every user.
var dailyPrompts = []string{
	"What's the most important lesson you learned today?",
	"Describe a moment today that made you feel grateful.",
	"What challenge did you face today, and how did you handle it?",
	"What's something you're looking forward to tomorrow?",
	"Reflect on a conversation that impacted you today.",
	"What's one thing you'd like to improve about yourself?",
	"Describe a small victory you had today.",
	"What's something that's been on your mind lately?",
	"How are you feeling right now, and why?",
	"What's a goal you're working towards?",
	"Reflect on a decision you made today.",
	"What's something that made you smile today?",
	"What's a fear or worry you'd like to let go of?",
	"Describe a person who influenced you today.",
	"What's something you're curious about?",
	"How did you take care of yourself today?",
	"What's a memory from today you want to remember?",
	"What's something you're proud of accomplishing?",
	"Reflect on a change you've noticed in yourself.",
	"What's something you're grateful for in your life right now?",
	"What's a question you've been pondering?",
	"Describe a moment of peace or calm you experienced.",
	"What's something you'd like to tell your future self?",
	"How did you show kindness to someone today?",
	"What's a dream or aspiration you have?",
	"Reflect on a mistake you made and what you learned.",
	"What's something that's been challenging you lately?",
	"How do you want to grow as a person?",
	"What's a simple pleasure you enjoyed today?",
}

// Daily is the prompt of the day.
type Daily struct {
	Prompt string `json:"prompt"`
	Date   string `json:"date"`
}

// Service picks the daily prompt.
type Service struct {
	now func() time.Time
}

// New creates a prompt service.
func New() *Service {
	return &Service{now: time.Now}
}

// Today returns the prompt for the current UTC date. The pick is the MD5
// of the date string modulo the list length, so it is stable for the whole
// day and changes at midnight UTC.
func (s *Service) Today() Daily {
	date := s.now().UTC().Format("2006-01-02")
	return Daily{Prompt: dailyPrompts[promptIndex(date)], Date: date}
}

func promptIndex(date string) int {
	sum := md5.Sum([]byte(date))
	n := new(big.Int).SetBytes(sum[:])
	return int(n.Mod(n, big.NewInt(int64(len(dailyPrompts)))).Int64())
}
