package quiz

// DefaultBank is the built-in question set about TON, Telegram and Durov.
func DefaultBank() []Question {
	return []Question{
		{
			ID:       1,
			Prompt:   "В каком году был основан Telegram?",
			Options:  []string{"2011", "2013", "2015", "2017"},
			Correct:  1,
			Category: "Telegram",
		},
		{
			ID:       2,
			Prompt:   "Как называется криптовалюта блокчейна TON?",
			Options:  []string{"Bitcoin", "Toncoin", "Ethereum", "TONCoin"},
			Correct:  1,
			Category: "TON",
		},
		{
			ID:       3,
			Prompt:   "Где родился Павел Дуров?",
			Options:  []string{"Москва", "Санкт-Петербург", "Ленинград", "Дубай"},
			Correct:  2,
			Category: "Дуров",
		},
		{
			ID:       4,
			Prompt:   "Что означает TON?",
			Options:  []string{"The Open Network", "Telegram Open Network", "Total Online Network", "Tech Open Network"},
			Correct:  0,
			Category: "TON",
		},
		{
			ID:       5,
			Prompt:   "Какую социальную сеть основал Павел Дуров до Telegram?",
			Options:  []string{"Одноклассники", "ВКонтакте", "Facebook", "MySpace"},
			Correct:  1,
			Category: "Дуров",
		},
	}
}
