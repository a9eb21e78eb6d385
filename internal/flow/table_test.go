package flow

import (
	"reflect"
	"sort"
	"testing"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
)

func TestNewTableLoadsEmbeddedContent(t *testing.T) {
	table, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	wantStages := []domain.Stage{
		domain.StageStarter,
		domain.StagePromptCause,
		domain.StageParaphrase,
		domain.StageEmpathyVocab,
		domain.StageUserRepeat,
		domain.StageFinisher,
	}
	if got := table.Stages(); !reflect.DeepEqual(got, wantStages) {
		t.Errorf("stages: want=%v got=%v", wantStages, got)
	}

	if len(table.Emotions()) != 12 {
		t.Errorf("emotions: want=12 got=%d", len(table.Emotions()))
	}

	def, ok := table.Stage(domain.StageFinisher)
	if !ok {
		t.Fatal("finisher stage missing")
	}
	if def.Expects != domain.ExpectNothing {
		t.Errorf("finisher expects: want terminal got=%q", def.Expects)
	}
}

func TestTargetWordsAreFirstThree(t *testing.T) {
	table, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	got := table.TargetWords("happy")
	want := []string{"joyful", "delighted", "cheerful"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("target words: want=%v got=%v", want, got)
	}

	if table.TargetWords("nonexistent") != nil {
		t.Error("unknown emotion should have no target words")
	}
}

func TestEmotionCatalogSortedWithPreview(t *testing.T) {
	table, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	catalog := table.EmotionCatalog()
	if len(catalog) != 12 {
		t.Fatalf("catalog size: want=12 got=%d", len(catalog))
	}
	if !sort.SliceIsSorted(catalog, func(i, j int) bool {
		return catalog[i].Emotion < catalog[j].Emotion
	}) {
		t.Error("catalog is not sorted by emotion")
	}
	for _, entry := range catalog {
		if len(entry.VocabularyPreview) != 2 {
			t.Errorf("emotion %q preview: want 2 words got=%v", entry.Emotion, entry.VocabularyPreview)
		}
	}
}

func TestParseTableRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown successor",
			yaml: `
stages:
  - {name: starter, expects: next_stage, next: nowhere, audio: true}
  - {name: finisher, expects: "", next: "", audio: true}
emotions:
  happy: {starter: a, prompt_cause: b, finisher: c, vocabulary: [x, y, z]}
`,
		},
		{
			name: "no terminal stage",
			yaml: `
stages:
  - {name: starter, expects: next_stage, next: starter, audio: true}
emotions:
  happy: {starter: a, prompt_cause: b, finisher: c, vocabulary: [x, y, z]}
`,
		},
		{
			name: "first stage not starter",
			yaml: `
stages:
  - {name: finisher, expects: "", next: "", audio: true}
emotions:
  happy: {starter: a, prompt_cause: b, finisher: c, vocabulary: [x, y, z]}
`,
		},
		{
			name: "too few vocabulary words",
			yaml: `
stages:
  - {name: starter, expects: next_stage, next: finisher, audio: true}
  - {name: finisher, expects: "", next: "", audio: true}
emotions:
  happy: {starter: a, prompt_cause: b, finisher: c, vocabulary: [x, y]}
`,
		},
		{
			name: "duplicate stage",
			yaml: `
stages:
  - {name: starter, expects: next_stage, next: finisher, audio: true}
  - {name: starter, expects: next_stage, next: finisher, audio: true}
  - {name: finisher, expects: "", next: "", audio: true}
emotions:
  happy: {starter: a, prompt_cause: b, finisher: c, vocabulary: [x, y, z]}
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseTable([]byte(tc.yaml)); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestAudioURLAndObjectKeyAgree(t *testing.T) {
	resolver := NewAudioResolver("https://cdn.example.com/")

	url := resolver.URL("happy", domain.StageStarter, true)
	want := "https://cdn.example.com/flow_conversations/happy/starter.mp3"
	if url != want {
		t.Errorf("url: want=%q got=%q", want, url)
	}
	if key := ObjectKey("happy", domain.StageStarter); "https://cdn.example.com/"+key != want {
		t.Errorf("object key %q does not match url %q", key, want)
	}

	if got := resolver.URL("happy", domain.StageParaphrase, false); got != "" {
		t.Errorf("stage without audio: want empty url got=%q", got)
	}
}
