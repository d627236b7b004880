// Package fixture builds databases and catalog content for service tests.
package fixture

import (
	"context"
	"fmt"
	"learnhub/database"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/catalog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory database that lives for the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

var userSeq atomic.Int64

// User inserts a user with the given role.
func User(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	u := models.User{
		Name:     fmt.Sprintf("%s user", role),
		Email:    fmt.Sprintf("%s-%d@example.com", role, userSeq.Add(1)),
		Role:     role,
		Password: "x",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// Catalog returns a catalog service with the stock defaults.
func Catalog(db *gorm.DB) *catalog.Service {
	return catalog.NewService(db, catalog.Defaults{WatchPercentage: 80, PassingScore: 70})
}

// CourseBuilder assembles a published course one session at a time.
type CourseBuilder struct {
	t       *testing.T
	cat     *catalog.Service
	Course  *courseModels.Course
	module  *courseModels.Module
	Modules []*courseModels.Module
}

func NewCourse(t *testing.T, cat *catalog.Service, price float64, sequential bool) *CourseBuilder {
	t.Helper()
	course, err := cat.CreateCourse(context.Background(), catalog.CourseInput{
		Title:                     "Course",
		Price:                     price,
		RequireSequentialProgress: sequential,
	})
	require.NoError(t, err)
	return &CourseBuilder{t: t, cat: cat, Course: course}
}

// Module starts a new module; following sessions go into it.
func (b *CourseBuilder) Module(title string) *CourseBuilder {
	b.t.Helper()
	m, err := b.cat.CreateModule(context.Background(), b.Course.ID, title, "", 0)
	require.NoError(b.t, err)
	b.module = m
	b.Modules = append(b.Modules, m)
	return b
}

// Video adds a video session of 100 seconds.
func (b *CourseBuilder) Video(title string, required int, free bool) uint {
	return b.session(catalog.SessionInput{
		Title:                   title,
		Type:                    courseModels.SessionTypeVideo,
		DurationSeconds:         100,
		RequiredWatchPercentage: required,
		IsFree:                  free,
	})
}

func (b *CourseBuilder) Article(title string) uint {
	return b.session(catalog.SessionInput{Title: title, Type: courseModels.SessionTypeArticle})
}

// Quiz adds a quiz session with questions worth 60, 15 and 25 points. Option
// "A" is the correct answer of each question.
func (b *CourseBuilder) Quiz(title string, passing int) (uint, []*courseModels.QuizQuestion) {
	b.t.Helper()
	id := b.session(catalog.SessionInput{Title: title, Type: courseModels.SessionTypeQuiz, PassingScore: passing})
	var questions []*courseModels.QuizQuestion
	for _, points := range []int{60, 15, 25} {
		q, err := b.cat.AddQuizQuestion(context.Background(), id, fmt.Sprintf("worth %d", points), points, []catalog.OptionInput{
			{Text: "A", IsCorrect: true},
			{Text: "B"},
		})
		require.NoError(b.t, err)
		questions = append(questions, q)
	}
	return id, questions
}

func (b *CourseBuilder) session(in catalog.SessionInput) uint {
	b.t.Helper()
	if b.module == nil {
		b.Module("Module 1")
	}
	s, err := b.cat.CreateSession(context.Background(), b.module.ID, in)
	require.NoError(b.t, err)
	return s.ID
}

// Publish makes the course available for enrollment.
func (b *CourseBuilder) Publish() *courseModels.Course {
	b.t.Helper()
	require.NoError(b.t, b.cat.PublishCourse(context.Background(), b.Course.ID, true))
	b.Course.IsPublished = true
	return b.Course
}

// Answers picks the correct option for the questions at the given indexes
// and the wrong one for the rest.
func Answers(questions []*courseModels.QuizQuestion, correct ...int) map[uint][]uint {
	right := make(map[int]bool, len(correct))
	for _, i := range correct {
		right[i] = true
	}
	answers := make(map[uint][]uint, len(questions))
	for i, q := range questions {
		for _, opt := range q.Options {
			if opt.IsCorrect == right[i] {
				answers[q.ID] = []uint{opt.ID}
			}
		}
	}
	return answers
}
