package flow

import (
	"strconv"

	"questline/internal/model"
)

// Evaluate reports whether a routing condition holds against the
// flattened answer map. Malformed conditions never fail hard: an
// unanswered question, a list-valued operand, an unparsable number, or an
// unknown operator all evaluate to false.
func Evaluate(cond model.Condition, flat model.AnswerMap) bool {
	answer, ok := flat[cond.QuestionID]
	if !ok {
		return false
	}
	userStr, ok := answer.StringKey()
	if !ok {
		return false
	}

	op := cond.Op()
	switch op {
	case model.OpEqual:
		return userStr == cond.Value
	case model.OpNotEqual:
		return userStr != cond.Value
	case model.OpGreater, model.OpGreaterEqual, model.OpLess, model.OpLessEqual:
		userNum, err1 := strconv.ParseFloat(userStr, 64)
		expNum, err2 := strconv.ParseFloat(cond.Value, 64)
		if err1 != nil || err2 != nil {
			return false
		}
		switch op {
		case model.OpGreater:
			return userNum > expNum
		case model.OpGreaterEqual:
			return userNum >= expNum
		case model.OpLess:
			return userNum < expNum
		default:
			return userNum <= expNum
		}
	default:
		return false
	}
}
