package model

import "strings"

// Rule maps an exact transaction description to a category and type.
// Rules are keyed by (keyword, direction); an "any" direction rule is the
// fallback consulted when no direction-specific rule exists.
type Rule struct {
	Keyword   string     `json:"keyword"`
	Direction Direction  `json:"direction"`
	Category  string     `json:"category"`
	Type      BudgetType `json:"type"`
}

// RuleKey builds the composite store key for a keyword and direction.
func RuleKey(keyword string, direction Direction) string {
	if strings.TrimSpace(string(direction)) == "" {
		direction = DirectionAny
	}
	return strings.ToUpper(strings.TrimSpace(keyword)) + "|" + strings.ToUpper(strings.TrimSpace(string(direction)))
}

// Key returns the composite store key of the rule.
func (r Rule) Key() string {
	return RuleKey(r.Keyword, r.Direction)
}

// SplitRuleKey breaks a composite key into keyword and direction. The
// direction follows the last "|", so keywords may contain the separator.
// It returns false when the key is not a rule key.
func SplitRuleKey(key string) (keyword string, direction Direction, ok bool) {
	i := strings.LastIndex(key, "|")
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], Direction(strings.ToLower(key[i+1:])), true
}
