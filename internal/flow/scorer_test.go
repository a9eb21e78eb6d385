package flow

import (
	"reflect"
	"testing"
)

func TestScoreAllMatched(t *testing.T) {
	got := Score(Tokenize("joyful delighted cheerful"), []string{"joyful", "delighted", "cheerful"})

	if got.Accuracy != 100.0 {
		t.Errorf("accuracy: want=100 got=%v", got.Accuracy)
	}
	if got.Tier != TierFull {
		t.Errorf("tier: want=%q got=%q", TierFull, got.Tier)
	}
	if !reflect.DeepEqual(got.Matched, []string{"joyful", "delighted", "cheerful"}) {
		t.Errorf("matched: got=%v", got.Matched)
	}
	if got.TotalWords != 3 {
		t.Errorf("total: want=3 got=%d", got.TotalWords)
	}
}

func TestScorePartialMatch(t *testing.T) {
	got := Score(Tokenize("I feel joyful today"), []string{"joyful", "delighted", "cheerful"})

	if got.Accuracy != 33.3 {
		t.Errorf("accuracy: want=33.3 got=%v", got.Accuracy)
	}
	if got.Tier != TierPartial {
		t.Errorf("tier: want=%q got=%q", TierPartial, got.Tier)
	}
	if !reflect.DeepEqual(got.Matched, []string{"joyful"}) {
		t.Errorf("matched: got=%v", got.Matched)
	}
}

func TestScoreTwoOfThree(t *testing.T) {
	got := Score(Tokenize("delighted and cheerful"), []string{"joyful", "delighted", "cheerful"})
	if got.Accuracy != 66.7 {
		t.Errorf("accuracy: want=66.7 got=%v", got.Accuracy)
	}
}

func TestScoreNoMatch(t *testing.T) {
	got := Score(Tokenize("something else entirely"), []string{"joyful", "delighted", "cheerful"})

	if got.Accuracy != 0.0 {
		t.Errorf("accuracy: want=0 got=%v", got.Accuracy)
	}
	if got.Tier != TierNone {
		t.Errorf("tier: want=%q got=%q", TierNone, got.Tier)
	}
	if len(got.Matched) != 0 {
		t.Errorf("matched: want empty got=%v", got.Matched)
	}
}

func TestScoreCaseAndPunctuationInsensitive(t *testing.T) {
	got := Score(Tokenize("JOYFUL, Delighted! 'cheerful'"), []string{"joyful", "delighted", "cheerful"})
	if got.Accuracy != 100.0 {
		t.Errorf("accuracy: want=100 got=%v", got.Accuracy)
	}
}

func TestScoreEachTargetCountsOnce(t *testing.T) {
	got := Score(Tokenize("joyful joyful joyful"), []string{"joyful", "delighted", "cheerful"})
	if len(got.Matched) != 1 {
		t.Errorf("matched: want 1 got=%v", got.Matched)
	}
	if got.Accuracy != 33.3 {
		t.Errorf("accuracy: want=33.3 got=%v", got.Accuracy)
	}
}

func TestScoreOrderIndependent(t *testing.T) {
	got := Score(Tokenize("cheerful joyful delighted"), []string{"joyful", "delighted", "cheerful"})
	if got.Accuracy != 100.0 {
		t.Errorf("accuracy: want=100 got=%v", got.Accuracy)
	}
	// Matched keeps target order, not input order.
	if !reflect.DeepEqual(got.Matched, []string{"joyful", "delighted", "cheerful"}) {
		t.Errorf("matched: got=%v", got.Matched)
	}
}

func TestScoreEmptyTargets(t *testing.T) {
	got := Score(Tokenize("anything"), nil)
	if got.Accuracy != 0.0 || got.Tier != TierNone {
		t.Errorf("empty targets: got accuracy=%v tier=%q", got.Accuracy, got.Tier)
	}
}
