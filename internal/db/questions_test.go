package db

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadQuestionsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.csv")
	content := `prompt,correct,alt1,alt2,alt3
What color is the sky?,Blue,Green,Red,
Two plus two?,4,3,5,22
,orphan correct,alt
No alternatives here,correct
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := readQuestions(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records %d, want 2 valid rows", len(records))
	}
	first := records[0]
	if first.Prompt != "What color is the sky?" || first.Correct != "Blue" {
		t.Fatalf("first record %+v", first)
	}
	if !reflect.DeepEqual(first.Alternatives, []string{"Green", "Red"}) {
		t.Fatalf("alternatives %v, want empty cells dropped", first.Alternatives)
	}
	if !reflect.DeepEqual(records[1].Alternatives, []string{"3", "5", "22"}) {
		t.Fatalf("alternatives %v", records[1].Alternatives)
	}
}

func TestQuestionAlternativesRoundTrip(t *testing.T) {
	var q Question
	if err := q.SetAlternatives([]string{"a", "b"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := q.Alternatives(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("alternatives %v", got)
	}
	q.WrongAnswers = []byte("{broken")
	if got := q.Alternatives(); got != nil {
		t.Fatalf("alternatives %v, want nil on a malformed payload", got)
	}
}
