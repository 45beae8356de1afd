package bot

// Подписи кнопок. Нажатие кнопки приходит обычным текстовым сообщением,
// поэтому сравнение всегда идет по точной строке.
const (
	btnAddExpense = "💰 Добавить расход"
	btnToday      = "📋 Сегодня"
	btnList       = "📝 Список"
	btnStats      = "📊 Статистика"
	btnCategories = "🏷 Категории"
	btnHelp       = "❓ Помощь"

	btnBack        = "🔙 Назад"
	btnCancel      = "❌ Отмена"
	btnNewCategory = "➕ Новая категория"
	btnSkip        = "Пропустить"

	btnStatsOverall    = "📊 Общая статистика"
	btnStatsByCategory = "🏷 По категориям"

	btnFieldAmount      = "💰 Сумма"
	btnFieldCategory    = "🏷 Категория"
	btnFieldDescription = "📝 Описание"

	// categoryPrefix отличает кнопки категорий от служебных; перед
	// нормализацией названия префикс отрезается.
	categoryPrefix = "🏷 "
)

const (
	msgChooseAction   = "Выбери действие:"
	msgNotUnderstood  = "❓ Команда не понята. Нажми /help для справки"
	msgChooseCategory = "Выбери категорию:"
	msgBadAmount      = "❌ Сумма должна быть числом больше нуля, например: 500 или 99.90"
	msgStorageError   = "❌ Что-то пошло не так, попробуй ещё раз"
	msgNotFound       = "❌ Запись не найдена"
)
