package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/tonquiz/miniapp/pkg/logger"
)

func (b *Bot) showProfile(s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	user, err := s.client.GetUser(ctx, s.userID)
	if err != nil {
		logger.Error("Failed to load profile", "user_id", s.userID, "error", err)
		b.sendMessage(s.userID, MsgError, nil)
		return
	}

	text := fmt.Sprintf(
		"%s <b>%s</b>\n\n"+
			"Очки: <b>%d</b>\n"+
			"Игр сыграно: %d\n"+
			"Правильных ответов: %d\n"+
			"Бонус за друзей: %d",
		user.AvatarEmoji, user.FirstName,
		user.TotalScore, user.GamesPlayed, user.CorrectAnswers, user.ReferralBonus,
	)
	b.sendMessage(s.userID, text, nil)
}

func (b *Bot) showLeaderboard(s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	entries, err := s.client.GetLeaderboard(ctx, 10)
	if err != nil {
		logger.Error("Failed to load leaderboard", "user_id", s.userID, "error", err)
		b.sendMessage(s.userID, MsgError, nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 <b>Таблица лидеров</b>\n\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for _, e := range entries {
		rank := fmt.Sprintf("%d.", e.Rank)
		if e.Rank <= len(medals) {
			rank = medals[e.Rank-1]
		}
		fmt.Fprintf(&sb, "%s %s %s — %d\n", rank, e.AvatarEmoji, e.FirstName, e.TotalScore)
	}
	if len(entries) == 0 {
		sb.WriteString("Пока пусто. Сыграй первым!")
	}
	b.sendMessage(s.userID, sb.String(), nil)
}

// showReferral hands out the user's invite link. The referral code rides
// in the /start payload, and both sides get the bonus on the invitee's
// first login.
func (b *Bot) showReferral(s *session) {
	profile := s.profileOrNil()
	if profile == nil {
		b.sendMessage(s.userID, MsgNotRegistered, nil)
		return
	}

	link := fmt.Sprintf("https://t.me/%s?start=%s", b.api.Self.UserName, profile.ReferralCode)
	text := fmt.Sprintf(
		"🎁 Пригласи друга и получите по %d очков каждый!\n\nТвоя ссылка:\n%s",
		b.config.ReferralBonus, link,
	)
	b.sendMessage(s.userID, text, nil)
}
