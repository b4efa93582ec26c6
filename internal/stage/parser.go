package stage

import (
	"context"
	"strings"

	"outreach-engine/internal/bundle"
	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// escalationDay is the day from which an unanswered workflow escalates
// instead of scheduling another follow-up.
const escalationDay = 4

// Parser evaluates the customer response. Success keywords win over failure
// keywords; anything else keeps the cycle going until the day ceiling.
func Parser(provider bundle.Provider) queue.HandlerFunc {
	return func(ctx context.Context, p workflow.Payload) ([]queue.Insertion, error) {
		if p.CustomerResponse == "" {
			if p.CurrentDay >= escalationDay {
				p.Status = workflow.StatusEscalated
				return []queue.Insertion{{
					Queue:   queue.Escalation,
					JobName: "escalate-workflow",
					Payload: p,
				}}, nil
			}

			p.CurrentDay++
			return []queue.Insertion{{
				Queue:   queue.FollowUp,
				JobName: "schedule-followup",
				Payload: p,
			}}, nil
		}

		keywords := provider.Bundle(ctx).Keywords
		response := strings.ToLower(strings.TrimSpace(p.CustomerResponse))

		if containsAny(response, keywords.Success) {
			p.Status = workflow.StatusCompleted
			return []queue.Insertion{{
				Queue:   queue.Completion,
				JobName: "success-completion",
				Payload: p,
			}}, nil
		}
		if containsAny(response, keywords.Failure) {
			p.Status = workflow.StatusFailed
			return []queue.Insertion{{
				Queue:   queue.Completion,
				JobName: "failure-completion",
				Payload: p,
			}}, nil
		}

		// Ambiguous response: continue the cycle while days remain.
		if p.CurrentDay < workflow.MaxDays {
			p.CurrentDay++
			return []queue.Insertion{{
				Queue:   queue.FollowUp,
				JobName: "continue-followup",
				Payload: p,
			}}, nil
		}

		p.Status = workflow.StatusFailed
		return []queue.Insertion{{
			Queue:   queue.Completion,
			JobName: "timeout-completion",
			Payload: p,
		}}, nil
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
