package model

import "fmt"

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// TargetStatus возвращает статус, в который переводит заявку решение
func (d Decision) TargetStatus() (ApprovalStatus, error) {
	switch d {
	case DecisionApprove:
		return ApprovalStatusApproved, nil
	case DecisionReject:
		return ApprovalStatusCanceled, nil
	default:
		return "", fmt.Errorf("unknown decision %q", string(d))
	}
}

// Verb возвращает глагол для текста уведомления
func (d Decision) Verb() string {
	if d == DecisionApprove {
		return "approved"
	}
	return "rejected"
}
