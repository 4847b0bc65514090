package services

import (
  "context"
  "errors"
  "math/rand"
  "strings"
  "testing"

  "gorm.io/gorm"

  "github.com/yungbote/roft-backend/internal/repos"
)

func newAssignmentForTest(gormDB *gorm.DB, rate float64) AssignmentService {
  log := newTestLogger()
  return NewAssignmentService(
    gormDB,
    log,
    repos.NewUserRepo(gormDB, log),
    repos.NewProfileRepo(gormDB, log),
    repos.NewGenerationRepo(gormDB, log),
    repos.NewAnnotationRepo(gormDB, log),
    repos.NewFeedbackOptionRepo(gormDB, log),
    DefaultGoalNumAnnotations,
    rate,
    rand.New(rand.NewSource(1)),
  )
}

func TestNextSkipsSeenGenerations(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")
  bob := createUser(t, gormDB, "bob")
  createPrompt(t, gormDB, 1, "First.", "Second.")
  createGeneration(t, gormDB, 1, 1, 2, "Gen one.", "Gen two.")
  createGeneration(t, gormDB, 2, 1, 2, "Gen one.", "Gen two.")

  // Both generations are in the 1..3 window, but alice already did #1.
  createAnnotation(t, gormDB, alice.ID, 1, 2, 10, false)
  createAnnotation(t, gormDB, bob.ID, 1, 2, 10, false)
  createAnnotation(t, gormDB, bob.ID, 2, 2, 10, false)

  svc := newAssignmentForTest(gormDB, 0)
  for i := 0; i < 5; i++ {
    asg, err := svc.Next(context.Background(), alice.ID, -1, -1)
    if err != nil {
      t.Fatalf("Next: %v", err)
    }
    if asg.TextID != 2 {
      t.Fatalf("assigned generation %d, want 2", asg.TextID)
    }
    if asg.PriorBoundary != -1 {
      t.Fatalf("prior boundary = %d, want -1 for a fresh assignment", asg.PriorBoundary)
    }
  }
}

func TestNextIgnoresSaturatedGenerations(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")
  createPrompt(t, gormDB, 1, "First.", "Second.")
  createGeneration(t, gormDB, 1, 1, 2, "Gen one.", "Gen two.")
  createGeneration(t, gormDB, 2, 1, 2, "Gen one.", "Gen two.")

  // Generation 1 is saturated with goal+1 annotations by other users.
  for i := 0; i < DefaultGoalNumAnnotations+1; i++ {
    u := createUser(t, gormDB, "rater"+strings.Repeat("x", i+1))
    createAnnotation(t, gormDB, u.ID, 1, 2, 10, false)
  }
  carol := createUser(t, gormDB, "carol")
  createAnnotation(t, gormDB, carol.ID, 2, 2, 10, false)

  svc := newAssignmentForTest(gormDB, 0)
  for i := 0; i < 5; i++ {
    asg, err := svc.Next(context.Background(), alice.ID, -1, -1)
    if err != nil {
      t.Fatalf("Next: %v", err)
    }
    if asg.TextID != 2 {
      t.Fatalf("assigned generation %d, want 2 (generation 1 is saturated)", asg.TextID)
    }
  }
}

func TestNextFallsBackToUnseen(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")
  createPrompt(t, gormDB, 1, "First.", "Second.")
  createGeneration(t, gormDB, 1, 1, 2, "Gen one.", "Gen two.")

  // Nothing has any annotations, so the in-range pool is empty and
  // the zero-annotation fallback has to kick in.
  svc := newAssignmentForTest(gormDB, 0)
  asg, err := svc.Next(context.Background(), alice.ID, -1, -1)
  if err != nil {
    t.Fatalf("Next: %v", err)
  }
  if asg.TextID != 1 {
    t.Fatalf("assigned generation %d, want 1", asg.TextID)
  }
}

func TestNextExhaustedReturnsTypedError(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")
  createPrompt(t, gormDB, 1, "First.", "Second.")
  createGeneration(t, gormDB, 1, 1, 2, "Gen one.", "Gen two.")
  createAnnotation(t, gormDB, alice.ID, 1, 2, 10, false)

  svc := newAssignmentForTest(gormDB, 0)
  _, err := svc.Next(context.Background(), alice.ID, -1, -1)
  if !errors.Is(err, ErrNoExamples) {
    t.Fatalf("err = %v, want ErrNoExamples", err)
  }
}

func TestNextHonorsPlaylistFilter(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")
  bob := createUser(t, gormDB, "bob")
  createPrompt(t, gormDB, 1, "First.", "Second.")
  gen1 := createGeneration(t, gormDB, 1, 1, 2, "Gen one.", "Gen two.")
  createGeneration(t, gormDB, 2, 1, 2, "Gen one.", "Gen two.")
  createAnnotation(t, gormDB, bob.ID, 1, 2, 10, false)
  createAnnotation(t, gormDB, bob.ID, 2, 2, 10, false)
  playlist := createPlaylist(t, gormDB, "news", gen1)

  svc := newAssignmentForTest(gormDB, 0)
  for i := 0; i < 5; i++ {
    asg, err := svc.Next(context.Background(), alice.ID, int(playlist.ID), -1)
    if err != nil {
      t.Fatalf("Next: %v", err)
    }
    if asg.TextID != gen1.ID {
      t.Fatalf("assigned generation %d, want %d from the playlist", asg.TextID, gen1.ID)
    }
    if asg.PlaylistID != int(playlist.ID) {
      t.Fatalf("playlist = %d, want %d", asg.PlaylistID, playlist.ID)
    }
  }
}

func TestNextQIDReview(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")
  createPrompt(t, gormDB, 1, "First.", "Second.")
  createGeneration(t, gormDB, 1, 1, 2, "Gen one.", "Gen two.")
  createAnnotation(t, gormDB, alice.ID, 1, 3, 10, false)
  // A later duplicate must not shadow the earliest answer.
  createAnnotation(t, gormDB, alice.ID, 1, 1, 10, false)

  svc := newAssignmentForTest(gormDB, 0)
  asg, err := svc.Next(context.Background(), alice.ID, 7, 1)
  if err != nil {
    t.Fatalf("Next: %v", err)
  }
  if asg.TextID != 1 {
    t.Fatalf("assigned generation %d, want the requested qid 1", asg.TextID)
  }
  if asg.PriorBoundary != 3 {
    t.Fatalf("prior boundary = %d, want 3 from the earliest annotation", asg.PriorBoundary)
  }
  if asg.PlaylistID != -1 {
    t.Fatalf("playlist = %d, want -1 (qid clears the playlist context)", asg.PlaylistID)
  }
}

func TestNextQIDUnknownGeneration(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")

  svc := newAssignmentForTest(gormDB, 0)
  _, err := svc.Next(context.Background(), alice.ID, -1, 42)
  if !errors.Is(err, ErrNotFound) {
    t.Fatalf("err = %v, want ErrNotFound", err)
  }
}

func TestNextCapsDisplayedSentences(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")
  createPrompt(t, gormDB, 1, "P1.", "P2.", "P3.")
  createGeneration(t, gormDB, 1, 1, 8,
    "G1.", "G2.", "G3.", "G4.", "G5.", "G6.", "G7.", "G8.")

  svc := newAssignmentForTest(gormDB, 0)
  asg, err := svc.Next(context.Background(), alice.ID, -1, -1)
  if err != nil {
    t.Fatalf("Next: %v", err)
  }
  // 2 prompt-tail sentences + 8 generated = 10, capped at 9.
  if len(asg.Sentences) != MaxDisplaySentences {
    t.Fatalf("len(sentences) = %d, want %d", len(asg.Sentences), MaxDisplaySentences)
  }
  if asg.MaxSentences != MaxDisplaySentences {
    t.Fatalf("max_sentences = %d, want %d", asg.MaxSentences, MaxDisplaySentences)
  }
  if asg.Sentences[0] != "P2." {
    t.Fatalf("first continuation sentence = %q, want the prompt tail", asg.Sentences[0])
  }
}

func TestAttentionCheckInjection(t *testing.T) {
  cases := []struct {
    name     string
    turker   bool
    boundary int
    rate     float64
    want     bool
  }{
    {name: "turker_all_human_rate_1", turker: true, boundary: 2, rate: 1.0, want: true},
    {name: "turker_all_human_rate_0", turker: true, boundary: 2, rate: 0.0, want: false},
    {name: "turker_mixed_boundary", turker: true, boundary: 1, rate: 1.0, want: false},
    {name: "non_turker_all_human", turker: false, boundary: 2, rate: 1.0, want: false},
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      gormDB := newTestDB(t)
      var user = createUser(t, gormDB, "plain")
      if tc.turker {
        user = createTurker(t, gormDB, "worker")
      }
      createPrompt(t, gormDB, 1, "First.", "Second.")
      createGeneration(t, gormDB, 1, 1, tc.boundary, "Gen one.", "Gen two.")

      svc := newAssignmentForTest(gormDB, tc.rate)
      asg, err := svc.Next(context.Background(), user.ID, -1, -1)
      if err != nil {
        t.Fatalf("Next: %v", err)
      }
      if asg.AttentionCheck != tc.want {
        t.Fatalf("attention check = %v, want %v", asg.AttentionCheck, tc.want)
      }
      instructed := strings.Contains(asg.PromptText, "all human-written")
      if instructed != tc.want {
        t.Fatalf("instruction present = %v, want %v", instructed, tc.want)
      }
    })
  }
}

func TestNextCountsOnlyScoredAnnotations(t *testing.T) {
  gormDB := newTestDB(t)
  alice := createUser(t, gormDB, "alice")
  createPrompt(t, gormDB, 1, "First.", "Second.")
  createGeneration(t, gormDB, 1, 1, 2, "Gen one.", "Gen two.")
  createGeneration(t, gormDB, 2, 1, 2, "Gen one.", "Gen two.")
  createGeneration(t, gormDB, 3, 1, 2, "Gen one.", "Gen two.")
  createAnnotation(t, gormDB, alice.ID, 1, 2, 10, false)
  createAnnotation(t, gormDB, alice.ID, 2, 2, 10, true)

  svc := newAssignmentForTest(gormDB, 0)
  asg, err := svc.Next(context.Background(), alice.ID, -1, -1)
  if err != nil {
    t.Fatalf("Next: %v", err)
  }
  if asg.NumAnnotations != 1 {
    t.Fatalf("num annotations = %d, want 1 (attention checks excluded)", asg.NumAnnotations)
  }
}
