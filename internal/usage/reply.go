package usage

import (
	"fmt"
	"io"
	"os"

	"github.com/harunnryd/pace/internal/model/contract"
)

// Message types as printed in transcripts.
const (
	TypeSystem = "system"
	TypeHuman  = "human"
	TypeAI     = "ai"
	TypeTool   = "tool"
)

// AiReply is the normalized view of one conversation message.
type AiReply struct {
	Type    string     `json:"type"`
	Content string     `json:"content"`
	Stats   TokenStats `json:"stats"`
}

// ToReply normalizes msg. A message without usage metadata counts zero tokens.
func ToReply(msg contract.Message) AiReply {
	reply := AiReply{
		Type:    messageType(msg.Role),
		Content: msg.Content,
	}
	if msg.Usage != nil {
		reply.Stats = TokenStats{
			Input:  nonNegative(msg.Usage.PromptTokens),
			Output: nonNegative(msg.Usage.CompletionTokens),
		}
	}
	return reply
}

func messageType(role string) string {
	switch role {
	case contract.RoleSystem:
		return TypeSystem
	case contract.RoleUser:
		return TypeHuman
	case contract.RoleAssistant:
		return TypeAI
	case contract.RoleTool:
		return TypeTool
	default:
		return role
	}
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// Accountant prints a transcript while folding token usage.
type Accountant struct {
	out io.Writer
}

func NewAccountant(out io.Writer) *Accountant {
	if out == nil {
		out = os.Stdout
	}
	return &Accountant{out: out}
}

// Fold writes one "{type}> {content}" line per message in sequence order and
// returns the summed usage along with the normalized replies.
func (a *Accountant) Fold(messages []contract.Message) (TokenStats, []AiReply) {
	var total TokenStats
	replies := make([]AiReply, 0, len(messages))
	for _, msg := range messages {
		reply := ToReply(msg)
		fmt.Fprintf(a.out, "%s> %s\n", reply.Type, reply.Content)
		total = total.Add(reply.Stats)
		replies = append(replies, reply)
	}
	return total, replies
}

// Sum totals the usage of messages without printing anything.
func Sum(messages []contract.Message) TokenStats {
	var total TokenStats
	for _, msg := range messages {
		total = total.Add(ToReply(msg).Stats)
	}
	return total
}
