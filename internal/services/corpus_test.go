package services

import (
  "context"
  "os"
  "path/filepath"
  "testing"

  "gorm.io/gorm"

  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/types"
)

const testCorpus = `prompts:
  - id: 1
    sentences:
      - "Once upon a time."
      - "There was a test."
generations:
  - id: 1
    prompt: 1
    boundary: 1
    sentences:
      - "The machine wrote this."
      - "And this."
  - id: 2
    prompt: 1
    boundary: 2
    sentences:
      - "Another continuation."
      - "Still going."
playlists:
  - name: stories
    description: "Short **stories**"
    details: "All story examples."
    generations: [1, 2]
feedback_options:
  - shortname: grammar
    category: fluency
    description: "Bad grammar"
  - shortname: contradicts
    category: substance
    description: "Contradicts itself"
`

func newCorpusForTest(gormDB *gorm.DB) CorpusService {
  log := newTestLogger()
  return NewCorpusService(
    gormDB,
    log,
    repos.NewPromptRepo(gormDB, log),
    repos.NewGenerationRepo(gormDB, log),
    repos.NewPlaylistRepo(gormDB, log),
    repos.NewFeedbackOptionRepo(gormDB, log),
  )
}

func writeCorpus(t *testing.T, content string) string {
  t.Helper()
  path := filepath.Join(t.TempDir(), "corpus.yaml")
  if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
    t.Fatalf("write corpus: %v", err)
  }
  return path
}

func TestLoadFileSeedsEverything(t *testing.T) {
  gormDB := newTestDB(t)
  path := writeCorpus(t, testCorpus)

  summary, err := newCorpusForTest(gormDB).LoadFile(context.Background(), path)
  if err != nil {
    t.Fatalf("LoadFile: %v", err)
  }
  if summary.Prompts != 1 || summary.Generations != 2 || summary.Playlists != 1 || summary.FeedbackOptions != 2 {
    t.Fatalf("summary = %+v", summary)
  }

  var prompt types.Prompt
  if err := gormDB.First(&prompt, 1).Error; err != nil {
    t.Fatalf("load prompt: %v", err)
  }
  if prompt.NumSentences != 2 {
    t.Fatalf("num_sentences = %d, want 2", prompt.NumSentences)
  }
  if got := types.SplitSentences(prompt.Body); len(got) != 2 || got[0] != "Once upon a time." {
    t.Fatalf("prompt body split = %v", got)
  }

  var playlist types.Playlist
  if err := gormDB.Preload("Generations").Where("name = ?", "stories").First(&playlist).Error; err != nil {
    t.Fatalf("load playlist: %v", err)
  }
  if len(playlist.Generations) != 2 {
    t.Fatalf("playlist has %d generations, want 2", len(playlist.Generations))
  }

  var option types.FeedbackOption
  if err := gormDB.Where("shortname = ?", "grammar").First(&option).Error; err != nil {
    t.Fatalf("load option: %v", err)
  }
  if !option.IsDefault {
    t.Fatal("seeded options must be defaults")
  }
}

func TestLoadFileIsIdempotent(t *testing.T) {
  gormDB := newTestDB(t)
  path := writeCorpus(t, testCorpus)
  svc := newCorpusForTest(gormDB)

  if _, err := svc.LoadFile(context.Background(), path); err != nil {
    t.Fatalf("first LoadFile: %v", err)
  }
  summary, err := svc.LoadFile(context.Background(), path)
  if err != nil {
    t.Fatalf("second LoadFile: %v", err)
  }
  if summary.Prompts != 0 || summary.Generations != 0 || summary.Playlists != 0 || summary.FeedbackOptions != 0 {
    t.Fatalf("second run inserted rows: %+v", summary)
  }

  var count int64
  if err := gormDB.Model(&types.Generation{}).Count(&count).Error; err != nil {
    t.Fatalf("count generations: %v", err)
  }
  if count != 2 {
    t.Fatalf("generation count = %d, want 2", count)
  }
}

func TestLoadFileMissingFile(t *testing.T) {
  gormDB := newTestDB(t)
  if _, err := newCorpusForTest(gormDB).LoadFile(context.Background(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
    t.Fatal("missing file accepted")
  }
}
