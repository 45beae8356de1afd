package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kackeymlg-lab/expense-bot/internal/model"
	"github.com/kackeymlg-lab/expense-bot/internal/timezone"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddExpense),
			tgbotapi.NewKeyboardButton(btnToday),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnList),
			tgbotapi.NewKeyboardButton(btnStats),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCategories),
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	)
}

func timezoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	labels := timezone.Labels()
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(labels); i += 3 {
		end := min(i+3, len(labels))
		row := make([]tgbotapi.KeyboardButton, 0, 3)
		for _, label := range labels[i:end] {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))
	return tgbotapi.NewReplyKeyboard(rows...)
}

// categoriesKeyboard строит клавиатуру выбора категории: сверху самые
// используемые, ниже остальные, по две в ряд.
func categoriesKeyboard(top, rest []model.Category, withNew bool) tgbotapi.ReplyKeyboardMarkup {
	all := make([]model.Category, 0, len(top)+len(rest))
	all = append(all, top...)
	all = append(all, rest...)

	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(all); i += 2 {
		row := []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(categoryPrefix + all[i].Name),
		}
		if i+1 < len(all) {
			row = append(row, tgbotapi.NewKeyboardButton(categoryPrefix+all[i+1].Name))
		}
		rows = append(rows, row)
	}
	if withNew {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnNewCategory)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
}

func statsModeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnStatsOverall)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnStatsByCategory)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
}

func editFieldsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnFieldAmount),
			tgbotapi.NewKeyboardButton(btnFieldCategory),
			tgbotapi.NewKeyboardButton(btnFieldDescription),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
}
