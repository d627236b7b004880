package catalog_test

import (
	"context"
	courseModels "learnhub/models/course"
	"learnhub/services/catalog"
	"learnhub/services/internal/fixture"
	"learnhub/services/shared"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCourseStructure_FlattensInModuleThenSessionOrder(t *testing.T) {
	db := fixture.NewDB(t)
	cat := fixture.Catalog(db)
	b := fixture.NewCourse(t, cat, 0, true)

	b.Module("Basics")
	first := b.Video("intro", 0, true)
	second := b.Article("reading")
	b.Module("Advanced")
	third, _ := b.Quiz("check", 0)
	b.Publish()

	structure, err := cat.GetCourseStructure(context.Background(), b.Course.ID)
	require.NoError(t, err)

	assert.True(t, structure.IsPublished)
	assert.True(t, structure.RequireSequentialProgress)
	require.Len(t, structure.Modules, 2)

	sessions := structure.Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, []uint{first, second, third}, []uint{sessions[0].ID, sessions[1].ID, sessions[2].ID})

	assert.Equal(t, 80, sessions[0].RequiredWatchPercentage, "zero threshold falls back to the default")
	assert.True(t, sessions[0].IsFree)
	assert.Equal(t, 70, sessions[2].PassingScore)

	got, ok := structure.Session(second)
	require.True(t, ok)
	assert.Equal(t, courseModels.SessionTypeArticle, got.Type)
}

func TestCreateCourse_KeepsNonSequentialFlag(t *testing.T) {
	db := fixture.NewDB(t)
	cat := fixture.Catalog(db)
	b := fixture.NewCourse(t, cat, 250, false)

	structure, err := cat.GetCourseStructure(context.Background(), b.Course.ID)
	require.NoError(t, err)
	assert.False(t, structure.RequireSequentialProgress)
	assert.Equal(t, 250.0, structure.Price)
	assert.False(t, structure.IsPublished)
}

func TestGetCourseStructure_UnknownCourse(t *testing.T) {
	cat := fixture.Catalog(fixture.NewDB(t))

	_, err := cat.GetCourseStructure(context.Background(), 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetAnswerKey(t *testing.T) {
	db := fixture.NewDB(t)
	cat := fixture.Catalog(db)
	b := fixture.NewCourse(t, cat, 0, true)
	quiz, questions := b.Quiz("check", 70)

	key, err := cat.GetAnswerKey(context.Background(), quiz)
	require.NoError(t, err)
	require.Len(t, key.Questions, 3)
	assert.Equal(t, 60, key.Questions[0].Points)
	assert.Equal(t, []uint{questions[0].Options[0].ID}, key.Questions[0].CorrectOptions)
}

func TestCreateSession_Validation(t *testing.T) {
	db := fixture.NewDB(t)
	cat := fixture.Catalog(db)
	b := fixture.NewCourse(t, cat, 0, true).Module("m")
	moduleID := b.Modules[0].ID

	_, err := cat.CreateSession(context.Background(), moduleID, catalog.SessionInput{Type: "PODCAST"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = cat.CreateSession(context.Background(), moduleID, catalog.SessionInput{Type: courseModels.SessionTypeVideo})
	assert.ErrorIs(t, err, shared.ErrInvalidInput, "video needs a duration")

	article, err := cat.CreateSession(context.Background(), moduleID, catalog.SessionInput{Type: courseModels.SessionTypeArticle})
	require.NoError(t, err)
	_, err = cat.AddQuizQuestion(context.Background(), article.ID, "q", 1, []catalog.OptionInput{{Text: "a", IsCorrect: true}, {Text: "b"}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput, "articles carry no questions")
}

func TestSetFinalAssessment(t *testing.T) {
	db := fixture.NewDB(t)
	cat := fixture.Catalog(db)
	b := fixture.NewCourse(t, cat, 0, true)
	video := b.Video("v", 0, false)
	quiz, _ := b.Quiz("final", 0)

	assert.ErrorIs(t, cat.SetFinalAssessment(context.Background(), b.Course.ID, video), shared.ErrInvalidInput)
	require.NoError(t, cat.SetFinalAssessment(context.Background(), b.Course.ID, quiz))

	structure, err := cat.GetCourseStructure(context.Background(), b.Course.ID)
	require.NoError(t, err)
	assert.True(t, structure.RequireFinalAssessment)
	assert.Equal(t, quiz, structure.FinalAssessmentSessionID)
}
