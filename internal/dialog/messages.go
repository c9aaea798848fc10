package dialog

// User-facing dialog texts.
const (
	msgAskTitleAdd    = "Введите название блока (макс. 20 символов):"
	msgAskTitleEdit   = "Введите название блока (максимум 20 символов):"
	msgAskIndexEdit   = "Введите номер блока, который нужно изменить:"
	msgAskIndexDelete = "Введите номер блока, который нужно удалить:"
	msgAskStart       = "Введите время начала (ЧЧ:ММ):"
	msgAskEnd         = "Введите время окончания (ЧЧ:ММ):"

	msgBadIndex       = "⚠️ Введите корректный номер блока."
	msgBadStart       = "⚠️ Введите корректное время начала (например 09:30)."
	msgBadEnd         = "⚠️ Введите корректное время окончания (например 10:00)."
	msgEndBeforeStart = "⚠️ Время окончания не может быть меньше времени начала. Попробуйте ещё раз."

	msgActionDone   = "✅ Действие выполнено успешно."
	msgActionFailed = "❌ Не удалось выполнить действие"
)
