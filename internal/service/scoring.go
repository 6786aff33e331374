package service

import (
	"math"

	"github.com/vxacademy/academy/internal/model"
)

// scoreResult is the outcome of grading one submission.
type scoreResult struct {
	Correct  int
	Total    int
	Score    int
	Passed   bool
	Selected map[uint]int
}

// scorePercent converts a correct count into a 0-100 score, rounding half away from zero.
func scorePercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// gradeAnswers compares every answer with the literal correct option text.
// Questions without an answer count as wrong and get index -1.
func gradeAnswers(questions []model.Question, answers map[uint]string, passingScore int) scoreResult {
	res := scoreResult{Total: len(questions), Selected: make(map[uint]int, len(questions))}
	for _, q := range questions {
		answer, ok := answers[q.ID]
		if !ok {
			res.Selected[q.ID] = -1
			continue
		}
		res.Selected[q.ID] = q.OptionIndex(answer)
		if answer == q.CorrectAnswer {
			res.Correct++
		}
	}
	res.Score = scorePercent(res.Correct, res.Total)
	res.Passed = res.Score >= passingScore
	return res
}
