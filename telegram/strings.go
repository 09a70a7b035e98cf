package telegram

// Button labels
const (
	BtnPlay        = "🎯 Играть"
	BtnRooms       = "🚪 Комнаты"
	BtnProfile     = "👤 Профиль"
	BtnLeaderboard = "🏆 Лидеры"
	BtnReferral    = "🎁 Пригласить друга"

	BtnPlayAgain  = "🔄 Играть снова"
	BtnMainMenu   = "🏠 В меню"
	BtnCreateRoom = "➕ Создать комнату"
	BtnRefresh    = "🔄 Обновить"
	BtnLeaveRoom  = "🚪 Выйти"
	BtnStartGame  = "🎮 Начать игру"
)

// Messages
const (
	MsgWelcome = "👋 Привет! Это TON Quiz — викторина о Telegram и TON.\n\n" +
		"Отвечай на вопросы, зарабатывай очки и соревнуйся с друзьями в комнатах."
	MsgNotRegistered  = "Не удалось загрузить профиль. Попробуй ещё раз: /start"
	MsgRoomNamePrompt = "Введи название комнаты:"
	MsgRoomNotFound   = "Комната не найдена или уже закрыта."
	MsgRoomFull       = "В этой комнате нет мест."
	MsgNoRooms        = "Открытых комнат пока нет. Создай свою!"
	MsgChatSendFailed = "Сообщение не отправлено, попробуй ещё раз."
	MsgError          = "Что-то пошло не так. Попробуй ещё раз."
)
