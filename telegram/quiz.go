package telegram

import (
	"context"
	"fmt"

	"github.com/tonquiz/miniapp/internal/quiz"
	"github.com/tonquiz/miniapp/pkg/logger"
)

// startSoloGame runs the quiz in a freshly created private room so the
// result still lands on the leaderboard.
func (b *Bot) startSoloGame(s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	room, err := s.client.CreateRoom(ctx, s.userID, "Соло игра", "ad", true)
	if err != nil {
		logger.Error("Failed to create solo room", "user_id", s.userID, "error", err)
		b.sendMessage(s.userID, MsgError, nil)
		return
	}

	b.startQuiz(s, room.RoomID)
}

// startRoomGame runs the quiz inside the room the player currently sits
// in. The room card and chat keep polling underneath.
func (b *Bot) startRoomGame(s *session) {
	roomID := s.currentRoomID()
	if roomID == "" {
		b.sendMessage(s.userID, MsgRoomNotFound, nil)
		return
	}
	b.startQuiz(s, roomID)
}

func (b *Bot) startQuiz(s *session, roomID string) {
	s.mu.Lock()
	if s.engine != nil {
		s.engine.Stop()
	}
	s.quizMsgID = 0

	cfg := quiz.Config{
		QuestionTime: b.config.QuestionTime(),
		RevealDelay:  b.config.RevealDelay(),
		Points:       b.config.PointsPerCorrect,
	}
	engine := quiz.NewEngine(b.bank, cfg, quiz.Hooks{
		OnQuestion: func(index int, q quiz.Question) {
			b.renderQuestion(s, index, q)
		},
		OnReveal: func(index int, q quiz.Question, choice int, correct bool) {
			b.renderReveal(s, index, q, choice)
		},
		OnFinished: func(score, correctCount int) {
			b.renderFinished(s, score, correctCount)
			go b.reportCompletion(s, roomID, score, correctCount)
		},
	})
	s.engine = engine
	s.mu.Unlock()

	engine.Start()
}

func (b *Bot) handleQuizAnswer(s *session, index, choice int) {
	s.mu.Lock()
	engine := s.engine
	s.mu.Unlock()

	if engine == nil {
		return
	}
	// A tap on an already replaced question is stale; drop it
	if engine.Snapshot().Index != index {
		return
	}
	engine.SubmitAnswer(choice)
}

func (b *Bot) restartGame(s *session) {
	s.mu.Lock()
	engine := s.engine
	s.mu.Unlock()

	if engine == nil || !engine.Restart() {
		b.startSoloGame(s)
	}
}

func (b *Bot) renderQuestion(s *session, index int, q quiz.Question) {
	total := len(b.bank)
	text := fmt.Sprintf("<b>Вопрос %d/%d</b>\n\n%s\n\n⏱ %d секунд на ответ",
		index+1, total, q.Prompt, b.config.QuestionSeconds)
	keyboard := QuestionKeyboard(index, q)

	s.mu.Lock()
	msgID := s.quizMsgID
	s.mu.Unlock()

	if msgID == 0 {
		msgID = b.sendMessage(s.userID, text, keyboard)
		s.mu.Lock()
		s.quizMsgID = msgID
		s.mu.Unlock()
		return
	}
	b.editMessage(s.userID, msgID, text, &keyboard)
}

func (b *Bot) renderReveal(s *session, index int, q quiz.Question, choice int) {
	var verdict string
	switch {
	case choice == q.Correct:
		verdict = fmt.Sprintf("✅ Верно! +%d очков", b.config.PointsPerCorrect)
	case choice == quiz.NoAnswer:
		verdict = "⏰ Время вышло!"
	default:
		verdict = "❌ Неверно!"
	}

	text := fmt.Sprintf("<b>Вопрос %d/%d</b>\n\n%s\n\n%s",
		index+1, len(b.bank), q.Prompt, verdict)
	keyboard := RevealKeyboard(q, choice)

	s.mu.Lock()
	msgID := s.quizMsgID
	s.mu.Unlock()
	if msgID != 0 {
		b.editMessage(s.userID, msgID, text, &keyboard)
	}
}

func (b *Bot) renderFinished(s *session, score, correctCount int) {
	text := fmt.Sprintf("🏁 <b>Игра окончена!</b>\n\nСчёт: <b>%d</b>\nПравильных ответов: %d из %d",
		score, correctCount, len(b.bank))
	keyboard := FinalKeyboard()

	s.mu.Lock()
	msgID := s.quizMsgID
	s.quizMsgID = 0
	s.mu.Unlock()

	if msgID != 0 {
		b.editMessage(s.userID, msgID, text, &keyboard)
	} else {
		b.sendMessage(s.userID, text, keyboard)
	}
}

// reportCompletion ships the result to the game endpoint. The game goes
// on locally even if the report fails; the failure is only logged.
func (b *Bot) reportCompletion(s *session, roomID string, score, correctCount int) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	if _, err := s.client.CompleteGame(ctx, s.userID, roomID, score, correctCount); err != nil {
		logger.Error("Failed to report completion",
			"user_id", s.userID, "room_id", roomID, "error", err)
	}
}
