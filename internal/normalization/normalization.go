package normalization

import (
  "strings"
)

func ParseInputString(input string) string {
  return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeTrigger folds free-text trigger labels into one bucket key.
// Empty and whitespace-only triggers normalize to "".
func NormalizeTrigger(input string) string {
  return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(input))), " ")
}
