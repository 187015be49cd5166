package game

import (
	"errors"
	"strings"
)

// Phase is the round lifecycle state.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseQuestionActive   Phase = "question_active"
	PhaseQuestionResolved Phase = "question_resolved"
	PhaseComplete         Phase = "round_complete"
)

type EventType string

const (
	EventCorrect       EventType = "correct"
	EventWrong         EventType = "wrong"
	EventRevealed      EventType = "revealed"
	EventNextQuestion  EventType = "next_question"
	EventRoundComplete EventType = "round_complete"
)

// Event is emitted by round transitions for the caller's UI layer.
type Event struct {
	Type          EventType
	QuestionIndex int
	Answer        string
	ScoreDelta    int
	TotalScore    int
}

var (
	ErrEmptyPool   = errors.New("no playable images")
	ErrNotActive   = errors.New("question is not active")
	ErrNotResolved = errors.New("question is not resolved")
	ErrEmptyAnswer = errors.New("answer is empty")
	ErrTileIndex   = errors.New("tile index out of range")
)

// Round owns one play-through: question sequencing, per-question tile
// state, score decay and completion. Transitions are synchronous; callers
// serialize access.
type Round struct {
	category       string
	questions      []ImageItem
	current        int
	revealed       [TileCount]bool
	answerRevealed bool
	questionScore  int
	totalScore     int
	phase          Phase
}

func NewRound() *Round {
	return &Round{phase: PhaseIdle}
}

// Start begins a fresh round over the given question sequence. Starting
// over an in-progress round discards it (last call wins). An empty
// sequence fails with ErrEmptyPool and leaves the machine idle.
func (r *Round) Start(category string, questions []ImageItem) error {
	if len(questions) == 0 {
		return ErrEmptyPool
	}
	r.category = category
	r.questions = questions
	r.current = 0
	r.totalScore = 0
	r.resetQuestion()
	r.phase = PhaseQuestionActive
	return nil
}

func (r *Round) resetQuestion() {
	r.revealed = [TileCount]bool{}
	r.answerRevealed = false
	r.questionScore = MaxQuestionScore
}

// RevealTile marks a tile revealed and applies the score decay. Revealing
// an already-revealed tile, or any tile after the question is resolved, is
// an idempotent no-op reported via changed=false.
func (r *Round) RevealTile(index int) (changed bool, err error) {
	if index < 0 || index >= TileCount {
		return false, ErrTileIndex
	}
	if r.phase != PhaseQuestionActive {
		return false, nil
	}
	if r.revealed[index] {
		return false, nil
	}
	r.revealed[index] = true
	r.questionScore = max(0, r.questionScore-TileCost)
	return true, nil
}

// SubmitAnswer compares text against the current question's accepted
// answers, trimmed and case-insensitive. A match resolves the question and
// accrues its score; a miss changes nothing.
func (r *Round) SubmitAnswer(text string) (Event, error) {
	if r.phase != PhaseQuestionActive {
		return Event{}, ErrNotActive
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Event{}, ErrEmptyAnswer
	}

	q := r.questions[r.current]
	for _, accepted := range q.AcceptedAnswers {
		if strings.EqualFold(text, strings.TrimSpace(accepted)) {
			delta := r.questionScore
			r.totalScore += delta
			r.answerRevealed = true
			r.phase = PhaseQuestionResolved
			return Event{
				Type:          EventCorrect,
				QuestionIndex: r.current,
				Answer:        q.Answer,
				ScoreDelta:    delta,
				TotalScore:    r.totalScore,
			}, nil
		}
	}
	return Event{
		Type:          EventWrong,
		QuestionIndex: r.current,
		TotalScore:    r.totalScore,
	}, nil
}

// RevealAnswer gives up on the current question: all tiles revealed,
// question score forced to zero, question resolved.
func (r *Round) RevealAnswer() (Event, error) {
	if r.phase != PhaseQuestionActive {
		return Event{}, ErrNotActive
	}
	for i := range r.revealed {
		r.revealed[i] = true
	}
	r.questionScore = 0
	r.answerRevealed = true
	r.phase = PhaseQuestionResolved
	return Event{
		Type:          EventRevealed,
		QuestionIndex: r.current,
		Answer:        r.questions[r.current].Answer,
		TotalScore:    r.totalScore,
	}, nil
}

// Advance moves past a resolved question: either on to the next one with
// fresh tile state, or to completion after the last.
func (r *Round) Advance() (Event, error) {
	if r.phase != PhaseQuestionResolved {
		return Event{}, ErrNotResolved
	}
	if r.current+1 == len(r.questions) {
		r.phase = PhaseComplete
		return Event{
			Type:          EventRoundComplete,
			QuestionIndex: r.current,
			TotalScore:    r.totalScore,
		}, nil
	}
	r.current++
	r.resetQuestion()
	r.phase = PhaseQuestionActive
	return Event{
		Type:          EventNextQuestion,
		QuestionIndex: r.current,
		TotalScore:    r.totalScore,
	}, nil
}

func (r *Round) Phase() Phase     { return r.phase }
func (r *Round) Category() string { return r.category }
func (r *Round) TotalScore() int  { return r.totalScore }

// Current returns the active question, if the round holds one.
func (r *Round) Current() (ImageItem, bool) {
	if r.phase == PhaseIdle || r.phase == PhaseComplete {
		return ImageItem{}, false
	}
	return r.questions[r.current], true
}

// Snapshot is an immutable view of round state for rendering.
type Snapshot struct {
	Phase          Phase
	Category       string
	CurrentIndex   int
	TotalQuestions int
	Revealed       [TileCount]bool
	QuestionScore  int
	TotalScore     int
	AnswerRevealed bool
	Complete       bool
}

func (r *Round) Snapshot() Snapshot {
	return Snapshot{
		Phase:          r.phase,
		Category:       r.category,
		CurrentIndex:   r.current,
		TotalQuestions: len(r.questions),
		Revealed:       r.revealed,
		QuestionScore:  r.questionScore,
		TotalScore:     r.totalScore,
		AnswerRevealed: r.answerRevealed,
		Complete:       r.phase == PhaseComplete,
	}
}
