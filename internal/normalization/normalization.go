package normalization

import (
  "strings"
)

func ParseInputString(input string) string {
  normalized := strings.ToLower(strings.TrimSpace(input))
  return normalized
}

// CollapseWhitespace additionally folds internal runs of whitespace into
// single spaces. Used for content-addressed feedback dedup.
func CollapseWhitespace(input string) string {
  fields := strings.Fields(ParseInputString(input))
  return strings.Join(fields, " ")
}
