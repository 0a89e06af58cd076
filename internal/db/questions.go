package db

import (
	"encoding/csv"
	"os"
	"strings"

	"gorm.io/gorm"
)

// RandomQuestion picks one question uniformly at random, skipping the given
// ids. When every question is excluded the exclusion list is ignored so a
// long game can reuse the bank rather than stall.
func RandomQuestion(conn *gorm.DB, exclude []uint) (Question, error) {
	var question Question
	query := conn.Order("RANDOM()")
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	err := query.First(&question).Error
	if err == gorm.ErrRecordNotFound && len(exclude) > 0 {
		err = conn.Order("RANDOM()").First(&question).Error
	}
	return question, err
}

func ListQuestions(conn *gorm.DB, search string) ([]Question, error) {
	var questions []Question
	query := conn.Order("id")
	if search != "" {
		query = query.Where("prompt ILIKE ?", "%"+search+"%")
	}
	err := query.Find(&questions).Error
	return questions, err
}

func CreateQuestion(conn *gorm.DB, prompt, correct string, alternatives []string) (Question, error) {
	question := Question{
		Prompt:        prompt,
		CorrectAnswer: correct,
	}
	if err := question.SetAlternatives(alternatives); err != nil {
		return Question{}, err
	}
	err := conn.Create(&question).Error
	return question, err
}

func DeleteQuestion(conn *gorm.DB, id uint) error {
	return conn.Delete(&Question{}, id).Error
}

type questionRecord struct {
	Prompt       string
	Correct      string
	Alternatives []string
}

// LoadQuestions reads questions from a CSV (prompt, correct answer, then one
// column per wrong alternative) and upserts them into the questions table.
func LoadQuestions(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	records, err := readQuestions(path)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, record := range records {
		var existing Question
		err := conn.Where("prompt = ?", record.Prompt).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return inserted, err
		}
		if _, err := CreateQuestion(conn, record.Prompt, record.Correct, record.Alternatives); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func readQuestions(path string) ([]questionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []questionRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			continue
		}
		record := questionRecord{
			Prompt:  strings.TrimSpace(row[0]),
			Correct: strings.TrimSpace(row[1]),
		}
		for _, cell := range row[2:] {
			if alt := strings.TrimSpace(cell); alt != "" {
				record.Alternatives = append(record.Alternatives, alt)
			}
		}
		if record.Prompt == "" || record.Correct == "" || len(record.Alternatives) == 0 {
			continue
		}
		if len(record.Alternatives) > 9 {
			record.Alternatives = record.Alternatives[:9]
		}
		records = append(records, record)
	}
	return records, nil
}
