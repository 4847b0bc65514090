package types

import (
  "reflect"
  "testing"
)

func TestSplitSentences(t *testing.T) {
  cases := []struct {
    name string
    body string
    want []string
  }{
    {name: "empty", body: "", want: []string{}},
    {name: "single", body: "Just one.", want: []string{"Just one."}},
    {name: "multiple", body: "One._SEP_Two._SEP_Three.", want: []string{"One.", "Two.", "Three."}},
    {name: "separator_preserves_spaces", body: "One. _SEP_ Two.", want: []string{"One. ", " Two."}},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      got := SplitSentences(tc.body)
      if !reflect.DeepEqual(got, tc.want) {
        t.Fatalf("SplitSentences(%q) = %v, want %v", tc.body, got, tc.want)
      }
    })
  }
}

func TestJoinSentencesRoundtrip(t *testing.T) {
  sentences := []string{"One.", "Two, with _ underscore.", "Three."}
  body := JoinSentences(sentences)
  got := SplitSentences(body)
  if !reflect.DeepEqual(got, sentences) {
    t.Fatalf("roundtrip = %v, want %v", got, sentences)
  }
}

func TestJoinSentencesEmpty(t *testing.T) {
  if body := JoinSentences(nil); body != "" {
    t.Fatalf("JoinSentences(nil) = %q, want empty", body)
  }
}
