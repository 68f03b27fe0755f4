package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jabuspark/backend/models"
)

func submitBody(bankID, questionID string, selectedIndex, secondsSpent int) fiber.Map {
	return fiber.Map{
		"bankId":        bankID,
		"questionId":    questionID,
		"selectedIndex": selectedIndex,
		"secondsSpent":  secondsSpent,
	}
}

func progressOf(t *testing.T, env envelope) map[string]interface{} {
	t.Helper()
	progress, ok := env.Data["progress"].(map[string]interface{})
	require.True(t, ok)
	return progress
}

func bankStatsOf(t *testing.T, env envelope) (answered, correct []interface{}) {
	t.Helper()
	stats, ok := env.Data["bankStats"].(map[string]interface{})
	require.True(t, ok)
	answered, _ = stats["answeredIds"].([]interface{})
	correct, _ = stats["correctIds"].([]interface{})
	return answered, correct
}

func TestSubmitCorrectAnswer(t *testing.T) {
	app, db, _ := newTestApp(t)
	user, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "2 + 2 = ?",
		Options:     models.StringList{"4", "5"},
		AnswerIndex: 0,
		Explanation: "Basic arithmetic.",
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	// Fresh progress from yesterday: the streak should extend.
	require.NoError(t, db.Create(&models.UserProgress{
		UserID:     user.ID,
		Streak:     1,
		LastActive: yesterdayUTC(),
	}).Error)

	resp := doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 30))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := decode(t, resp)
	require.True(t, env.Success)

	result := env.Data["result"].(map[string]interface{})
	assert.Equal(t, bank.ID, result["bankId"])
	assert.Equal(t, q.ID, result["questionId"])
	assert.Equal(t, float64(0), result["selectedIndex"])
	assert.Equal(t, float64(0), result["answerIndex"])
	assert.Equal(t, true, result["isCorrect"])
	assert.Equal(t, "Basic arithmetic.", result["explanation"])

	progress := progressOf(t, env)
	assert.Equal(t, float64(2), progress["streak"])
	assert.Equal(t, float64(1), progress["totalAnswered"])
	assert.Equal(t, float64(1), progress["correctAnswered"])
	assert.Equal(t, float64(100), progress["accuracy"])
	assert.Equal(t, float64(30), progress["studySeconds"])
	assert.Equal(t, todayUTC(), progress["lastActive"])

	answered, correct := bankStatsOf(t, env)
	assert.Equal(t, []interface{}{q.ID}, answered)
	assert.Equal(t, []interface{}{q.ID}, correct)
}

func TestSubmitWrongAnswer(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Capital of Nigeria?",
		Options:     models.StringList{"Lagos", "Abuja"},
		AnswerIndex: 1,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 10)))
	require.True(t, env.Success)

	result := env.Data["result"].(map[string]interface{})
	assert.Equal(t, false, result["isCorrect"])

	progress := progressOf(t, env)
	assert.Equal(t, float64(1), progress["totalAnswered"])
	assert.Equal(t, float64(0), progress["correctAnswered"])
	assert.Equal(t, float64(0), progress["accuracy"])

	answered, correct := bankStatsOf(t, env)
	assert.Len(t, answered, 1)
	assert.Empty(t, correct)
}

func TestSubmitGapResetsStreak(t *testing.T) {
	app, db, _ := newTestApp(t)
	user, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	fiveDaysAgo := daysAgoUTC(5)
	require.NoError(t, db.Create(&models.UserProgress{
		UserID:     user.ID,
		Streak:     7,
		LastActive: fiveDaysAgo,
	}).Error)

	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 0)))
	require.True(t, env.Success)
	assert.Equal(t, float64(1), progressOf(t, env)["streak"])
}

func TestSubmitSameDayKeepsStreak(t *testing.T) {
	app, db, _ := newTestApp(t)
	user, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	require.NoError(t, db.Create(&models.UserProgress{
		UserID:     user.ID,
		Streak:     4,
		LastActive: todayUTC(),
	}).Error)

	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 0)))
	require.True(t, env.Success)
	assert.Equal(t, float64(4), progressOf(t, env)["streak"])
}

func TestSubmitCreatesProgressLazily(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 0)))
	require.True(t, env.Success)

	progress := progressOf(t, env)
	assert.Equal(t, float64(1), progress["streak"])
	assert.Equal(t, float64(1), progress["totalAnswered"])
	assert.Equal(t, todayUTC(), progress["lastActive"])
}

func TestResubmissionDoesNotDuplicateAnswered(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 0)))
	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 0)))
	require.True(t, env.Success)

	answered, _ := bankStatsOf(t, env)
	assert.Len(t, answered, 1)
	// Both submissions still count toward the lifetime total.
	assert.Equal(t, float64(2), progressOf(t, env)["totalAnswered"])
}

func TestCorrectIsNeverDowngraded(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 0)))
	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 1, 0)))
	require.True(t, env.Success)

	_, correct := bankStatsOf(t, env)
	assert.Equal(t, []interface{}{q.ID}, correct)

	progress := progressOf(t, env)
	assert.Equal(t, float64(2), progress["totalAnswered"])
	assert.Equal(t, float64(1), progress["correctAnswered"])
	assert.Equal(t, float64(50), progress["accuracy"])
}

func TestLateCorrectJoinsCorrectSet(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 1, 0)))
	_, correct := bankStatsOf(t, env)
	assert.Empty(t, correct)

	env = decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 0)))
	_, correct = bankStatsOf(t, env)
	assert.Equal(t, []interface{}{q.ID}, correct)
}

func TestOutOfRangeIndexScoresIncorrect(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	resp := doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 99, 0))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := decode(t, resp)

	result := env.Data["result"].(map[string]interface{})
	assert.Equal(t, false, result["isCorrect"])
}

func TestNegativeSecondsContributeNothing(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, -50)))
	require.True(t, env.Success)
	assert.Equal(t, float64(0), progressOf(t, env)["studySeconds"])
}

func TestAccuracyRounding(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db,
		models.Question{Prompt: "Q1", Options: models.StringList{"a", "b"}, AnswerIndex: 0},
		models.Question{Prompt: "Q2", Options: models.StringList{"a", "b"}, AnswerIndex: 0},
		models.Question{Prompt: "Q3", Options: models.StringList{"a", "b"}, AnswerIndex: 0},
	)
	var questions []models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).Order("sort_order").Find(&questions).Error)

	// 1 correct of 3: round(33.33) = 33. 2 of 3: round(66.67) = 67.
	decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, questions[0].ID, 0, 0)))
	decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, questions[1].ID, 1, 0)))
	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, questions[2].ID, 1, 0)))
	assert.Equal(t, float64(33), progressOf(t, env)["accuracy"])

	env = decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, questions[1].ID, 0, 0)))
	progress := progressOf(t, env)
	assert.Equal(t, float64(4), progress["totalAnswered"])
	assert.Equal(t, float64(2), progress["correctAnswered"])
	assert.Equal(t, float64(50), progress["accuracy"])
}

func TestTwoDistinctQuestionsBothCount(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bank := seedBank(t, db,
		models.Question{Prompt: "Q1", Options: models.StringList{"a", "b"}, AnswerIndex: 0},
		models.Question{Prompt: "Q2", Options: models.StringList{"a", "b"}, AnswerIndex: 1},
	)
	var questions []models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).Order("sort_order").Find(&questions).Error)

	decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, questions[0].ID, 0, 0)))
	env := decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, questions[1].ID, 1, 0)))

	answered, correct := bankStatsOf(t, env)
	assert.Len(t, answered, 2)
	assert.Len(t, correct, 2)
	assert.Equal(t, float64(2), progressOf(t, env)["totalAnswered"])
}

func TestSubmitUnknownQuestionIsNotFoundAndMutatesNothing(t *testing.T) {
	app, db, _ := newTestApp(t)
	user, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})

	resp := doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, "no-such-question", 0, 0))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var progress models.UserProgress
	err := db.Where("user_id = ?", user.ID).First(&progress).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var stats models.UserBankStats
	err = db.Where("user_id = ?", user.ID).First(&stats).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubmitQuestionFromOtherBankIsNotFound(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")
	bankA := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	bankB := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bankA.ID).First(&q).Error)

	resp := doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bankB.ID, q.ID, 0, 0))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitValidation(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := seedUser(t, db, "student")

	resp := doJSON(t, app, "POST", "/api/practice/submit", token, fiber.Map{"bankId": "b"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/practice/submit", token, fiber.Map{"bankId": "b", "questionId": "q"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/practice/submit", "", submitBody("b", "q", 0, 0))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestResetClearsBankStatsOnly(t *testing.T) {
	app, db, _ := newTestApp(t)
	user, token := seedUser(t, db, "student")
	bank := seedBank(t, db, models.Question{
		Prompt:      "Q",
		Options:     models.StringList{"a", "b"},
		AnswerIndex: 0,
	})
	var q models.Question
	require.NoError(t, db.Where("bank_id = ?", bank.ID).First(&q).Error)

	decode(t, doJSON(t, app, "POST", "/api/practice/submit", token, submitBody(bank.ID, q.ID, 0, 30)))

	env := decode(t, doJSON(t, app, "POST", "/api/practice/reset", token, fiber.Map{"bankId": bank.ID}))
	require.True(t, env.Success)
	assert.Equal(t, true, env.Data["reset"])

	var stats models.UserBankStats
	err := db.Where("user_id = ? AND bank_id = ?", user.ID, bank.ID).First(&stats).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Lifetime aggregates survive a reset.
	var progress models.UserProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&progress).Error)
	assert.Equal(t, 1, progress.TotalAnswered)
	assert.Equal(t, 1, progress.CorrectAnswered)
	assert.Equal(t, 30, progress.StudySeconds)

	// Resetting an absent row is still a success.
	env = decode(t, doJSON(t, app, "POST", "/api/practice/reset", token, fiber.Map{"bankId": bank.ID}))
	assert.True(t, env.Success)
}
