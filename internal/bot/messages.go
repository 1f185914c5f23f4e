package bot

const (
	MsgWelcome = "Добро пожаловать! Используйте /help для списка команд."
	MsgHelp    = "Доступные команды:\n" +
		"/start - Начать взаимодействие с ботом\n" +
		"/help - Список команд\n" +
		"/register <Ваш ник> - Зарегистрироваться\n" +
		"/join [Время] - Записаться на игры\n" +
		"/invite <Ник> [Время] - Записать гостя\n" +
		"/cancel [Ник] - Отменить запись\n" +
		"/open <Дата> [Место] [Время] - Открыть запись на игры\n" +
		"/clear - Очистить список зарегистрированных участников"

	MsgRegisterUsage = "Неверный формат команды. Используйте /register <Ваш ник>."
	MsgInviteUsage   = "Неверный формат команды. Используйте /invite <Ник> [Время]."
	MsgOpenUsage     = "Неверный формат команды. Используйте /open <Дата> [Место] [Время]."

	MsgRegistered     = "Вы успешно зарегистрированы под ником %s!"
	MsgNoActiveEvent  = "Нет активной записи на игры."
	MsgRegisterFirst  = "Сначала зарегистрируйтесь с помощью команды /register <Ваш ник>."
	MsgNoRegistration = "Активная запись с таким ником не найдена."
	MsgCleared        = "Список зарегистрированных успешно очищен!"
	MsgNotOrganizer   = "Эта команда доступна только организаторам."
	MsgInternalError  = "Произошла ошибка. Попробуйте позже."

	announcementFormat = "%s, Запись открыта! 😎\n\n🕐 %s\n🗺 %s"
	listFormat         = "%s, Запись открыта! 😎\n\n%s\n\n🕐 %s\n🗺 %s"
)
