package types

import (
  "strings"
)

// SEP delimits sentences inside stored prompt and generation bodies. The
// corpus is seeded with it already in place.
const SEP = "_SEP_"

func SplitSentences(body string) []string {
  if body == "" {
    return []string{}
  }
  return strings.Split(body, SEP)
}

func JoinSentences(sentences []string) string {
  return strings.Join(sentences, SEP)
}
