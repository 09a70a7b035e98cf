package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tonquiz/miniapp/internal/apiclient"
	"github.com/tonquiz/miniapp/internal/quiz"
)

// MainMenuKeyboard is the persistent reply keyboard.
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnPlay),
			tgbotapi.NewKeyboardButton(BtnRooms),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnProfile),
			tgbotapi.NewKeyboardButton(BtnLeaderboard),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnReferral),
		),
	)
}

// QuestionKeyboard renders the answer options for an open question.
// Callback data carries the question index so stale taps on an already
// answered question are ignored.
func QuestionKeyboard(index int, q quiz.Question) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, option := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, fmt.Sprintf("ans_%d_%d", index, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// RevealKeyboard shows the options with the verdict marks during the
// reveal window. The buttons are inert.
func RevealKeyboard(q quiz.Question, choice int) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, option := range q.Options {
		label := option
		switch {
		case i == q.Correct:
			label = "✅ " + option
		case i == choice:
			label = "❌ " + option
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "noop"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FinalKeyboard follows the results card.
func FinalKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnPlayAgain, "again"),
			tgbotapi.NewInlineKeyboardButtonData(BtnMainMenu, "menu"),
		),
	)
}

// RoomListKeyboard lists open rooms as join buttons.
func RoomListKeyboard(rooms []apiclient.Room) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rooms)+1)
	for _, room := range rooms {
		label := fmt.Sprintf("%s (%d/%d)", room.RoomName, room.CurrentPlayers, room.MaxPlayers)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "room_join_"+room.RoomID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnCreateRoom, "room_new"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// RoomKeyboard is shown under the live room card.
func RoomKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnStartGame, "room_play"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnLeaveRoom, "room_leave"),
		),
	)
}
