package messages

import "fmt"

const (
	btnReport   = "📝 Отчёт за день"
	btnPlan     = "📋 Мой план"
	btnMyReport = "📊 Мой отчёт"
	btnContact  = "📞 Связь с тренером"
	btnHelp     = "❓ Помощь"
	btnAdmin    = "🛠 Админ-панель"
	btnBack     = "⬅️ В меню"

	btnMacros     = "КБЖУ"
	btnWorkout    = "Тренировка"
	btnNorms      = "Нормы активности"
	btnViewReport = "Отчёт подопечного"
	btnUsers      = "Мои подопечные"
	btnAssign     = "Добавить подопечного"
	btnUnassign   = "Убрать подопечного"
	btnMyContact  = "Мой контакт"
	btnPromote    = "Назначить админа"
	btnDemote     = "Снять админа"
	btnEvening    = "Время вечерней рассылки"

	btnCancel = "Отмена"
	btnSkip   = "Пропустить"
	btnFinish = "Готово"
	btnToday  = "Сегодня"
)

// NotSet is shown in place of values that were never entered.
const NotSet = "не задано"

const (
	MainMenu  = "Главное меню"
	AdminMenu = "Админ-панель"
	UseMenu   = "Не понял вас. Воспользуйтесь меню."
	Failure   = "Что-то пошло не так, попробуйте ещё раз."
	Cancelled = "Действие отменено."
	Denied    = "Недостаточно прав для этого действия."

	Help = "Я помогаю вести дневник питания и активности.\n\n" +
		"/report – заполнить отчёт за день\n" +
		"/start – главное меню\n" +
		"/help – эта справка\n\n" +
		"День считается до 04:00 следующего утра."

	HintCommandBlocked       = "Сейчас идёт ввод данных, команды недоступны. Чтобы выйти, нажмите «Отмена»."
	HintReportCommandBlocked = "Сначала закончите отчёт. Чтобы прервать его, нажмите «Отмена»."

	// self-report
	PromptSleep   = "Сколько часов вы спали? Например: 7.5"
	PromptSteps   = "Сколько шагов вы прошли?"
	PromptWater   = "Сколько литров воды вы выпили? Например: 2,5"
	PromptMacros  = "Отправьте КБЖУ за день: ккал, белки, жиры, углеводы. Например: 1778,133,59,178\nИли пришлите фото дневника питания."
	PromptPhotos  = "Пришлите фото еды, можно несколько. Когда закончите, нажмите «Пропустить»."
	PromptNote    = "Добавьте комментарий к дню или нажмите «Пропустить»."
	ReportSaved   = "Отчёт сохранён. Спасибо!"
	ReportExists  = "Вы уже отправили отчёт за сегодня."
	NoReportToday = "Отчёт за сегодня ещё не заполнен."

	// admin prelude
	PromptTargetUser = "Введите ID пользователя:"
	PromptTargetDate = "Введите дату в формате ГГГГ-ММ-ДД или ДД.ММ.ГГГГ, либо нажмите «Сегодня»."

	PromptCalories = "Калории на день (ккал):"
	PromptProtein  = "Белки (г):"
	PromptFat      = "Жиры (г):"
	PromptCarbs    = "Углеводы (г):"

	PromptWorkout = "Отправляйте упражнения по одному в сообщении. Когда закончите, нажмите «Готово»."

	PromptNormWater = "Норма воды (л):"
	PromptNormSteps = "Норма шагов:"
	PromptNormSleep = "Норма сна (ч):"

	PromptAssign    = "Введите ID пользователя, которого нужно закрепить за вами:"
	PromptUnassign  = "Введите ID подопечного, которого нужно открепить:"
	AlreadyAssigned = "Этот пользователь уже закреплён за тренером."
	NotInGroup      = "Этот пользователь не закреплён за вами."
	NoUsers         = "За вами пока никто не закреплён."

	PromptPromote     = "Введите ID пользователя, которого нужно назначить администратором:"
	PromptDemote      = "Введите ID администратора, которого нужно снять:"
	CannotDemoteSelf  = "Нельзя снять с себя роль супер-администратора."
	CannotDemoteSuper = "Супер-администратора нельзя снять через бота."
	AlreadyAdmin      = "Этот пользователь уже администратор."
	NotAnAdmin        = "Этот пользователь не администратор."

	PromptEveningTime = "Введите время вечерней рассылки в формате ЧЧ:ММ:"

	PromptContact = "Отправьте текст, который подопечные увидят по кнопке «Связь с тренером»:"
	ContactSaved  = "Контакт сохранён."
	NoCoach       = "За вами пока не закреплён тренер."
	NoContact     = "Тренер ещё не оставил контакт."

	EveningReminder = "Добрый вечер! Не забудьте заполнить отчёт за день."
)

func PhotoAccepted(n int) string {
	return fmt.Sprintf("Фото %d принято. Пришлите ещё или нажмите «Пропустить».", n)
}

func WorkoutLineAccepted(n int) string {
	return fmt.Sprintf("Добавлено упражнений: %d. Отправьте следующее или нажмите «Готово».", n)
}

func MacrosSaved(userID, date string) string {
	return fmt.Sprintf("КБЖУ для %s на %s сохранены.", userID, date)
}

func WorkoutSaved(userID, date string, lines int) string {
	return fmt.Sprintf("Тренировка для %s на %s сохранена (%d упр.).", userID, date, lines)
}

func NormsSaved(userID, date string) string {
	return fmt.Sprintf("Нормы активности для %s на %s сохранены.", userID, date)
}

func Assigned(userID string) string {
	return fmt.Sprintf("Пользователь %s закреплён за вами.", userID)
}

func Unassigned(userID string) string {
	return fmt.Sprintf("Пользователь %s откреплён.", userID)
}

func Promoted(userID string) string {
	return fmt.Sprintf("Пользователь %s теперь администратор.", userID)
}

func Demoted(userID string) string {
	return fmt.Sprintf("Пользователь %s больше не администратор.", userID)
}

func EveningTimeSaved(hm string) string {
	return fmt.Sprintf("Вечерняя рассылка теперь в %s.", hm)
}
