package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/tonquiz/miniapp/internal/models"
	"github.com/tonquiz/miniapp/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomPlayer{},
		&models.ChatMessage{},
		&models.GameResult{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func seedUser(t *testing.T, repo *UserRepository, telegramID int64, name string) *models.User {
	t.Helper()
	user, err := repo.UpsertUser(telegramID, "", name, "")
	if err != nil {
		t.Fatalf("UpsertUser(%d) error = %v", telegramID, err)
	}
	return user
}

func TestUpsertUser(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := seedUser(t, repo, 42, "Аня")
	if user.ReferralCode == "" {
		t.Error("ReferralCode is empty, want generated code")
	}
	if len(user.ReferralCode) != 8 {
		t.Errorf("len(ReferralCode) = %d, want 8", len(user.ReferralCode))
	}
	if user.AvatarEmoji == "" {
		t.Error("AvatarEmoji is empty, want assigned avatar")
	}

	// A second login refreshes the profile but keeps identity fields
	updated, err := repo.UpsertUser(42, "anya", "Анна", "")
	if err != nil {
		t.Fatalf("second UpsertUser() error = %v", err)
	}
	if updated.Username != "anya" {
		t.Errorf("Username = %q, want anya", updated.Username)
	}
	if updated.FirstName != "Анна" {
		t.Errorf("FirstName = %q, want Анна", updated.FirstName)
	}
	if updated.ReferralCode != user.ReferralCode {
		t.Errorf("ReferralCode changed on upsert: %q -> %q", user.ReferralCode, updated.ReferralCode)
	}

	var count int64
	repo.db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestGetByTelegramID_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.GetByTelegramID(999)
	if errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Errorf("CodeOf(err) = %q, want NOT_FOUND", errors.CodeOf(err))
	}
}

func TestApplyReferral(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	referrer := seedUser(t, repo, 1, "Аня")
	seedUser(t, repo, 2, "Боря")

	if err := repo.ApplyReferral(2, referrer.ReferralCode, 50); err != nil {
		t.Fatalf("ApplyReferral() error = %v", err)
	}

	invitee, _ := repo.GetByTelegramID(2)
	if invitee.ReferralBonus != 50 {
		t.Errorf("invitee bonus = %d, want 50", invitee.ReferralBonus)
	}
	if invitee.ReferredBy != 1 {
		t.Errorf("invitee ReferredBy = %d, want 1", invitee.ReferredBy)
	}

	inviter, _ := repo.GetByTelegramID(1)
	if inviter.ReferralBonus != 50 {
		t.Errorf("inviter bonus = %d, want 50", inviter.ReferralBonus)
	}

	// A second code must not double the bonus
	other := seedUser(t, repo, 3, "Вера")
	if err := repo.ApplyReferral(2, other.ReferralCode, 50); err != nil {
		t.Fatalf("repeat ApplyReferral() error = %v", err)
	}
	invitee, _ = repo.GetByTelegramID(2)
	if invitee.ReferralBonus != 50 {
		t.Errorf("bonus after repeat = %d, want 50", invitee.ReferralBonus)
	}
	if invitee.ReferredBy != 1 {
		t.Errorf("ReferredBy after repeat = %d, want 1", invitee.ReferredBy)
	}
}

func TestApplyReferral_SelfAndUnknown(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := seedUser(t, repo, 1, "Аня")

	if err := repo.ApplyReferral(1, user.ReferralCode, 50); err != nil {
		t.Fatalf("self referral error = %v", err)
	}
	if err := repo.ApplyReferral(1, "NOPE1234", 50); err != nil {
		t.Fatalf("unknown code error = %v", err)
	}

	got, _ := repo.GetByTelegramID(1)
	if got.ReferralBonus != 0 {
		t.Errorf("bonus = %d, want 0", got.ReferralBonus)
	}
}

func TestCreateAndJoinRoom(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	rooms := NewRoomRepository(db)

	seedUser(t, users, 1, "Аня")
	seedUser(t, users, 2, "Боря")

	room, err := rooms.CreateRoom(1, "Тестовая", models.PaymentTypeAd, false, 2)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if room.RoomID == "" {
		t.Fatal("RoomID is empty, want generated id")
	}
	if room.CurrentPlayers != 1 {
		t.Errorf("CurrentPlayers = %d, want 1 (creator seated)", room.CurrentPlayers)
	}

	if err := rooms.JoinRoom(room.RoomID, 2); err != nil {
		t.Fatalf("JoinRoom() error = %v", err)
	}

	// Joining again is a no-op, not a duplicate seat
	if err := rooms.JoinRoom(room.RoomID, 2); err != nil {
		t.Fatalf("repeat JoinRoom() error = %v", err)
	}

	got, err := rooms.GetRoom(room.RoomID)
	if err != nil {
		t.Fatalf("GetRoom() error = %v", err)
	}
	if got.CurrentPlayers != 2 {
		t.Errorf("CurrentPlayers = %d, want 2", got.CurrentPlayers)
	}

	players, err := rooms.GetPlayers(room.RoomID)
	if err != nil {
		t.Fatalf("GetPlayers() error = %v", err)
	}
	if len(players) != 2 {
		t.Errorf("len(players) = %d, want 2", len(players))
	}
}

func TestJoinRoom_Full(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	rooms := NewRoomRepository(db)

	seedUser(t, users, 1, "Аня")
	seedUser(t, users, 2, "Боря")

	room, err := rooms.CreateRoom(1, "Тесная", models.PaymentTypeAd, false, 1)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	err = rooms.JoinRoom(room.RoomID, 2)
	if errors.CodeOf(err) != errors.ErrCodeRoomFull {
		t.Errorf("CodeOf(err) = %q, want ROOM_FULL", errors.CodeOf(err))
	}
}

func TestJoinRoom_NotFound(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	rooms := NewRoomRepository(db)

	seedUser(t, users, 1, "Аня")

	err := rooms.JoinRoom("missing", 1)
	if errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Errorf("CodeOf(err) = %q, want NOT_FOUND", errors.CodeOf(err))
	}
}

func TestListPublicRooms(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	rooms := NewRoomRepository(db)

	seedUser(t, users, 1, "Аня")

	public, err := rooms.CreateRoom(1, "Открытая", models.PaymentTypeAd, false, 10)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if _, err := rooms.CreateRoom(1, "Приватная", models.PaymentTypeAd, true, 10); err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	listings, err := rooms.ListPublicRooms(20)
	if err != nil {
		t.Fatalf("ListPublicRooms() error = %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("len(listings) = %d, want 1 (private room hidden)", len(listings))
	}
	if listings[0].RoomID != public.RoomID {
		t.Errorf("RoomID = %q, want %q", listings[0].RoomID, public.RoomID)
	}
	if listings[0].CreatorName != "Аня" {
		t.Errorf("CreatorName = %q, want Аня", listings[0].CreatorName)
	}

	// A started room leaves the list
	if err := rooms.UpdateStatus(public.RoomID, models.RoomStatusPlaying); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	listings, _ = rooms.ListPublicRooms(20)
	if len(listings) != 0 {
		t.Errorf("len(listings) = %d, want 0", len(listings))
	}
}

func TestFinishStaleRooms(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	rooms := NewRoomRepository(db)

	seedUser(t, users, 1, "Аня")
	room, err := rooms.CreateRoom(1, "Старая", models.PaymentTypeAd, false, 10)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	// Age the room past the cutoff
	db.Model(&models.Room{}).
		Where("room_id = ?", room.RoomID).
		Update("created_at", time.Now().UTC().Add(-48*time.Hour))

	closed, err := rooms.FinishStaleRooms(24 * time.Hour)
	if err != nil {
		t.Fatalf("FinishStaleRooms() error = %v", err)
	}
	if closed != 1 {
		t.Errorf("closed = %d, want 1", closed)
	}

	got, _ := rooms.GetRoom(room.RoomID)
	if got.Status != models.RoomStatusFinished {
		t.Errorf("Status = %q, want finished", got.Status)
	}
}

func TestChatListSince(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	rooms := NewRoomRepository(db)
	chat := NewChatRepository(db)

	seedUser(t, users, 1, "Аня")
	room, err := rooms.CreateRoom(1, "Чат", models.PaymentTypeAd, false, 10)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	var lastID uint
	for i := 1; i <= 5; i++ {
		msg, err := chat.Append(room.RoomID, 1, fmt.Sprintf("сообщение %d", i))
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if msg.ID <= lastID {
			t.Errorf("message ids not increasing: %d after %d", msg.ID, lastID)
		}
		lastID = msg.ID
	}

	all, err := chat.ListSince(room.RoomID, 0, 100)
	if err != nil {
		t.Fatalf("ListSince() error = %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len(all) = %d, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Errorf("messages out of order: %d before %d", all[i-1].ID, all[i].ID)
		}
	}
	if all[0].FirstName != "Аня" {
		t.Errorf("FirstName = %q, want Аня", all[0].FirstName)
	}

	// Only messages past the high-water mark come back
	tail, err := chat.ListSince(room.RoomID, all[2].ID, 100)
	if err != nil {
		t.Fatalf("ListSince() error = %v", err)
	}
	if len(tail) != 2 {
		t.Fatalf("len(tail) = %d, want 2", len(tail))
	}
	if tail[0].ID != all[3].ID {
		t.Errorf("tail starts at %d, want %d", tail[0].ID, all[3].ID)
	}
}

func TestRecordCompletion(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	rooms := NewRoomRepository(db)
	games := NewGameRepository(db)

	seedUser(t, users, 1, "Аня")
	room, err := rooms.CreateRoom(1, "Игра", models.PaymentTypeAd, false, 10)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	sessionID, err := games.RecordCompletion(room.RoomID, 1, 30, 3)
	if err != nil {
		t.Fatalf("RecordCompletion() error = %v", err)
	}
	if sessionID == 0 {
		t.Error("sessionID = 0, want stored id")
	}

	user, _ := users.GetByTelegramID(1)
	if user.TotalScore != 30 {
		t.Errorf("TotalScore = %d, want 30", user.TotalScore)
	}
	if user.GamesPlayed != 1 {
		t.Errorf("GamesPlayed = %d, want 1", user.GamesPlayed)
	}
	if user.CorrectAnswers != 3 {
		t.Errorf("CorrectAnswers = %d, want 3", user.CorrectAnswers)
	}

	players, _ := rooms.GetPlayers(room.RoomID)
	if len(players) != 1 || players[0].Score != 30 {
		t.Errorf("room standing = %+v, want score 30", players)
	}

	// A second game accumulates
	if _, err := games.RecordCompletion(room.RoomID, 1, 50, 5); err != nil {
		t.Fatalf("second RecordCompletion() error = %v", err)
	}
	user, _ = users.GetByTelegramID(1)
	if user.TotalScore != 80 {
		t.Errorf("TotalScore = %d, want 80", user.TotalScore)
	}
	if user.GamesPlayed != 2 {
		t.Errorf("GamesPlayed = %d, want 2", user.GamesPlayed)
	}
}

func TestGetLeaderboard(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)

	for i, score := range []int64{30, 90, 60} {
		user := seedUser(t, users, int64(i+1), fmt.Sprintf("Игрок%d", i+1))
		db.Model(&models.User{}).
			Where("telegram_id = ?", user.TelegramID).
			Update("total_score", score)
	}

	top, err := users.GetLeaderboard(10)
	if err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("len(top) = %d, want 3", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].TotalScore > top[i-1].TotalScore {
			t.Errorf("leaderboard out of order at %d", i)
		}
	}
	if top[0].TelegramID != 2 {
		t.Errorf("top player = %d, want 2", top[0].TelegramID)
	}
}
