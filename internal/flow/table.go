package flow

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
)

//go:embed flow.yaml
var tableYAML []byte

// targetWordCount is how many of an emotion's vocabulary words a session
// practices during empathy_vocab.
const targetWordCount = 3

// previewWordCount is how many words the emotion catalog endpoint exposes.
const previewWordCount = 2

// StageDefinition is one row of the immutable stage table.
type StageDefinition struct {
	Name       domain.Stage
	Expects    domain.ExpectedAction
	Next       domain.Stage
	HasAudio   bool
	NextAction string
}

// EmotionDefinition holds the scripted lines and vocabulary for one emotion.
type EmotionDefinition struct {
	Key         string
	Starter     string
	PromptCause string
	Finisher    string
	Vocabulary  []string
}

// Table is the static stage/emotion lookup consulted by the machine.
// Built once at process start, read-only afterwards.
type Table struct {
	stages   map[domain.Stage]StageDefinition
	order    []domain.Stage
	emotions map[string]EmotionDefinition
}

type tableFile struct {
	Stages []struct {
		Name       string `yaml:"name"`
		Expects    string `yaml:"expects"`
		Next       string `yaml:"next"`
		Audio      bool   `yaml:"audio"`
		NextAction string `yaml:"next_action"`
	} `yaml:"stages"`
	Emotions map[string]struct {
		Starter     string   `yaml:"starter"`
		PromptCause string   `yaml:"prompt_cause"`
		Finisher    string   `yaml:"finisher"`
		Vocabulary  []string `yaml:"vocabulary"`
	} `yaml:"emotions"`
}

// NewTable parses the embedded flow.yaml and validates it.
func NewTable() (*Table, error) {
	return parseTable(tableYAML)
}

func parseTable(raw []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse flow table: %w", err)
	}

	t := &Table{
		stages:   make(map[domain.Stage]StageDefinition, len(f.Stages)),
		emotions: make(map[string]EmotionDefinition, len(f.Emotions)),
	}
	for _, s := range f.Stages {
		def := StageDefinition{
			Name:       domain.Stage(s.Name),
			Expects:    domain.ExpectedAction(s.Expects),
			Next:       domain.Stage(s.Next),
			HasAudio:   s.Audio,
			NextAction: s.NextAction,
		}
		if _, dup := t.stages[def.Name]; dup {
			return nil, fmt.Errorf("flow table: duplicate stage %q", def.Name)
		}
		t.stages[def.Name] = def
		t.order = append(t.order, def.Name)
	}
	for key, e := range f.Emotions {
		if len(e.Vocabulary) < targetWordCount {
			return nil, fmt.Errorf("flow table: emotion %q needs at least %d vocabulary words", key, targetWordCount)
		}
		t.emotions[key] = EmotionDefinition{
			Key:         key,
			Starter:     e.Starter,
			PromptCause: e.PromptCause,
			Finisher:    e.Finisher,
			Vocabulary:  e.Vocabulary,
		}
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) validate() error {
	if len(t.order) == 0 {
		return fmt.Errorf("flow table: no stages")
	}
	if t.order[0] != domain.StageStarter {
		return fmt.Errorf("flow table: first stage must be %q, got %q", domain.StageStarter, t.order[0])
	}
	terminals := 0
	for _, name := range t.order {
		def := t.stages[name]
		if def.Expects == domain.ExpectNothing {
			terminals++
			if def.Next != "" {
				return fmt.Errorf("flow table: terminal stage %q has a successor", name)
			}
			continue
		}
		if def.Expects != domain.ExpectNextStage && def.Expects != domain.ExpectVoiceInput {
			return fmt.Errorf("flow table: stage %q has unknown expected action %q", name, def.Expects)
		}
		if _, ok := t.stages[def.Next]; !ok {
			return fmt.Errorf("flow table: stage %q points at unknown successor %q", name, def.Next)
		}
	}
	if terminals != 1 {
		return fmt.Errorf("flow table: want exactly one terminal stage, got %d", terminals)
	}
	if len(t.emotions) == 0 {
		return fmt.Errorf("flow table: no emotions")
	}
	return nil
}

// Stage returns the definition for name. ok is false for unknown stages.
func (t *Table) Stage(name domain.Stage) (StageDefinition, bool) {
	def, ok := t.stages[name]
	return def, ok
}

// Emotion returns the definition for key. ok is false for unknown emotions.
func (t *Table) Emotion(key string) (EmotionDefinition, bool) {
	def, ok := t.emotions[key]
	return def, ok
}

// TargetWords returns the deterministic practice subset for an emotion: the
// first three words of its vocabulary list.
func (t *Table) TargetWords(emotion string) []string {
	def, ok := t.emotions[emotion]
	if !ok {
		return nil
	}
	return append([]string(nil), def.Vocabulary[:targetWordCount]...)
}

// EmotionCatalog lists all emotions with a short vocabulary preview,
// sorted by key for a stable wire order.
func (t *Table) EmotionCatalog() []domain.EmotionPreview {
	keys := make([]string, 0, len(t.emotions))
	for k := range t.emotions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.EmotionPreview, 0, len(keys))
	for _, k := range keys {
		def := t.emotions[k]
		n := previewWordCount
		if n > len(def.Vocabulary) {
			n = len(def.Vocabulary)
		}
		out = append(out, domain.EmotionPreview{
			Emotion:           k,
			VocabularyPreview: append([]string(nil), def.Vocabulary[:n]...),
		})
	}
	return out
}

// Emotions returns every emotion definition, sorted by key.
func (t *Table) Emotions() []EmotionDefinition {
	keys := make([]string, 0, len(t.emotions))
	for k := range t.emotions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]EmotionDefinition, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.emotions[k])
	}
	return out
}

// Stages returns the stage names in declaration order.
func (t *Table) Stages() []domain.Stage {
	return append([]domain.Stage(nil), t.order...)
}
