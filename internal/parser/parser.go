// Package parser reads course plans from YAML documents.
//
//	courses:
//	  - name: Bio
//	    exam_date: "2025-01-10"
//	    topics:
//	      - name: Cells
//	        performance: 40
//	        last_studied: "2024-12-01"
//	        retention_rate: 0.6
//	        completed: false
package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type courseRecord struct {
	Name     string        `koanf:"name"`
	ExamDate string        `koanf:"exam_date"`
	Topics   []topicRecord `koanf:"topics"`
}

type topicRecord struct {
	Name          string  `koanf:"name"`
	Performance   int     `koanf:"performance"`
	LastStudied   string  `koanf:"last_studied"`
	RetentionRate float64 `koanf:"retention_rate"`
	Completed     bool    `koanf:"completed"`
}

// ParseFile reads a course plan from the given path.
func ParseFile(path string) ([]domain.Course, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return decode(k)
}

// Parse reads a course plan from an io.Reader.
func Parse(r io.Reader) ([]domain.Course, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(bytesProvider(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parsing course plan: %w", err)
	}
	return decode(k)
}

func decode(k *koanf.Koanf) ([]domain.Course, error) {
	var records []courseRecord
	if err := k.Unmarshal("courses", &records); err != nil {
		return nil, fmt.Errorf("decoding courses: %w", err)
	}

	courses := make([]domain.Course, 0, len(records))
	for _, rec := range records {
		course, err := rec.toCourse()
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := domain.ValidateCourses(courses); err != nil {
		return nil, fmt.Errorf("invalid course plan: %w", err)
	}
	return courses, nil
}

func (rec courseRecord) toCourse() (domain.Course, error) {
	examDate, err := domain.ParseDate(rec.ExamDate)
	if err != nil {
		return domain.Course{}, fmt.Errorf("course %q: exam_date: %w", rec.Name, err)
	}

	course := domain.Course{
		Name:     rec.Name,
		ExamDate: examDate,
		Topics:   make([]domain.Topic, 0, len(rec.Topics)),
	}
	for _, t := range rec.Topics {
		lastStudied, err := domain.ParseDate(t.LastStudied)
		if err != nil {
			return domain.Course{}, fmt.Errorf("course %q topic %q: last_studied: %w", rec.Name, t.Name, err)
		}
		course.Topics = append(course.Topics, domain.Topic{
			Name:          t.Name,
			Performance:   t.Performance,
			LastStudied:   lastStudied,
			RetentionRate: t.RetentionRate,
			Completed:     t.Completed,
		})
	}
	return course, nil
}

// bytesProvider is a koanf.Provider over an in-memory document.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) {
	return b, nil
}

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("bytes provider does not support this method")
}
