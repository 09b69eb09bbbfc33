package constants

// Состояния диалогов / Dialog states
// Состояние сессии — единственный источник правды о том, какой ввод ожидается.
const (
	STATE_IDLE = "idle"

	// Утреннее заполнение площадки
	STATE_MORNING_FILL_SITE_NAME      = "morning_fill_site_name"
	STATE_MORNING_FILL_BONUS_TARGETS  = "morning_fill_bonus_target"
	STATE_MORNING_FILL_RESP_LASTNAME  = "morning_fill_responsible_lastname"
	STATE_MORNING_FILL_RESP_FIRSTNAME = "morning_fill_responsible_firstname"
	STATE_MORNING_FILL_PHONE          = "morning_fill_phone"

	// Вечерний отчет
	STATE_EVENING_FILL_SELECT_SITE     = "evening_fill_select_site"
	STATE_EVENING_FILL_LASTNAME        = "evening_fill_lastname"
	STATE_EVENING_FILL_FIRSTNAME       = "evening_fill_firstname"
	STATE_EVENING_FILL_QR_NUMBER       = "evening_fill_qr_number"
	STATE_EVENING_FILL_QR_AMOUNT       = "evening_fill_qr_amount"
	STATE_EVENING_FILL_CASH_AMOUNT     = "evening_fill_cash_amount"
	STATE_EVENING_FILL_TERMINAL_AMOUNT = "evening_fill_terminal_amount"
	STATE_EVENING_FILL_COMMENT         = "evening_fill_comment"
	STATE_EVENING_FILL_CONFIRM         = "evening_fill_confirm"
	// Отчет сохранен, площадка запомнена — следующий сотрудник вводится без выбора площадки.
	STATE_EVENING_FILL_DONE = "evening_fill_done"

	// Редактирование (меню параметров, а не линейная последовательность)
	STATE_EDIT_ENTER_LASTNAME = "edit_enter_lastname"
	STATE_EDIT_MENU           = "edit_menu"
	STATE_EDIT_FIELD          = "edit_field"

	// Начисление бонуса/штрафа и зарплаты ответственного
	STATE_BONUS_SELECT_SITE     = "bonus_select_site"
	STATE_BONUS_SELECT_EMPLOYEE = "bonus_select_employee"
	STATE_BONUS_SELECT_TYPE     = "bonus_select_type"
	STATE_BONUS_INPUT_AMOUNT    = "bonus_input_amount"

	// Админские подпотоки
	STATE_ADMIN_ADD_ADMIN    = "admin_add_admin"
	STATE_ADMIN_REMOVE_ADMIN = "admin_remove_admin"
)

// Имена потоков, хранятся в контексте сессии.
const (
	FLOW_MORNING = "morning"
	FLOW_EVENING = "evening"
	FLOW_EDIT    = "edit"
	FLOW_BONUS   = "bonus"
	FLOW_ADMIN   = "admin"
)

// Каналы начисления в потоке бонусов/штрафов.
const (
	BONUS_TYPE_PENALTY            = "bonus_penalty"
	BONUS_TYPE_RESPONSIBLE_SALARY = "responsible_salary"
)

// Префиксы данных обратного вызова / Callback data prefixes
const (
	CALLBACK_CONFIRM_CANCEL = "confirm_cancel"
	CALLBACK_CANCEL_CANCEL  = "cancel_cancel"

	CALLBACK_PREFIX_EVENING_SITE  = "select_site"      // select_site_<site_id>
	CALLBACK_PREFIX_EDIT_SITE     = "select_site_edit" // select_site_edit_<site_id>
	CALLBACK_PREFIX_SELECT_REPORT = "select_report"    // select_report_<report_id>
	CALLBACK_PREFIX_SELECT_PERSON = "select_person"    // select_person_<индекс в Edit.Candidates>

	CALLBACK_EDIT_BY_LASTNAME   = "edit_by_lastname"
	CALLBACK_EDIT_BY_SITE       = "edit_by_site"
	CALLBACK_PREFIX_EDIT_FIELD  = "edit_field"     // edit_field_<key>__<report_id>
	CALLBACK_PREFIX_FINISH_EDIT = "finish_editing" // finish_editing_<report_id>
	CALLBACK_PREFIX_VIEW_LOGS   = "view_logs"      // view_logs_<report_id>

	CALLBACK_PREFIX_BONUS_SITE     = "bonus_site"     // bonus_site_<site_id>
	CALLBACK_PREFIX_BONUS_EMPLOYEE = "bonus_employee" // bonus_employee_<report_id>
	CALLBACK_BONUS_TYPE_PENALTY    = "bonus_type_penalty"
	CALLBACK_BONUS_TYPE_SALARY     = "bonus_type_salary"

	CALLBACK_ADMIN_VIEW_SITES   = "admin_view_sites"
	CALLBACK_ADMIN_GET_PDF      = "admin_get_pdf"
	CALLBACK_ADMIN_GET_XLSX     = "admin_get_xlsx"
	CALLBACK_ADMIN_VIEW_LOGS    = "admin_view_logs"
	CALLBACK_ADMIN_ADD_ADMIN    = "admin_add_admin"
	CALLBACK_ADMIN_REMOVE_ADMIN = "admin_remove_admin"
	CALLBACK_ADMIN_QR_CARD      = "admin_qr_card"

	CALLBACK_PREFIX_ADMIN_PDF_SITE    = "admin_pdf_site"    // admin_pdf_site_<site_id>
	CALLBACK_PREFIX_ADMIN_XLSX_SITE   = "admin_xlsx_site"   // admin_xlsx_site_<site_id>
	CALLBACK_PREFIX_ADMIN_LOGS_SITE   = "admin_logs_site"   // admin_logs_site_<site_id>
	CALLBACK_PREFIX_ADMIN_LOGS_REPORT = "admin_logs_report" // admin_logs_report_<report_id>
	CALLBACK_PREFIX_ADMIN_QR_SITE     = "admin_qr_site"     // admin_qr_site_<site_id>
)

// Кнопки главного меню и навигации (ReplyKeyboard)
const (
	BTN_MORNING_FILL = "🌅 Заполнить площадку (утро)"
	BTN_EVENING_FILL = "🌆 Заполнить площадку (вечер)"
	BTN_EDIT         = "✏️ Редактировать данные"
	BTN_BONUS        = "💰 Начислить бонус/штраф"
	BTN_HELP         = "ℹ️ Помощь"
	BTN_ADMIN_PANEL  = "🔧 Админ-панель"

	BTN_NEXT   = "⏭️ Далее"
	BTN_BACK   = "⬅️ Назад"
	BTN_CANCEL = "❌ Отмена"
	BTN_OK     = "✅ Ок"
)

// Роли пользователей
const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	ROLE_SUPERADMIN = "superadmin"
)

// Статусы площадки
const (
	SITE_STATUS_MORNING_FILLED = "morning_filled"
	SITE_STATUS_EVENING_FILLED = "evening_filled"
	SITE_STATUS_COMPLETED      = "completed"
)

// Типы записей журнала действий
const (
	LOG_USER_CREATED           = "user_created"
	LOG_MORNING_FILL_STARTED   = "morning_fill_started"
	LOG_MORNING_FILL_COMPLETED = "morning_fill_completed"
	LOG_EVENING_FILL_STARTED   = "evening_fill_started"
	LOG_EVENING_FILL_COMPLETED = "evening_fill_completed"
	LOG_FIELD_EDITED           = "field_edited"
	LOG_BONUS_PENALTY_ADDED    = "bonus_penalty_added"
	LOG_RESPONSIBLE_SALARY_SET = "responsible_salary_set"
	LOG_BEST_BONUS_REASSIGNED  = "best_revenue_bonus_reassigned"
	LOG_ADMIN_ADDED            = "admin_added"
	LOG_ADMIN_REMOVED          = "admin_removed"
	LOG_PDF_GENERATED          = "pdf_generated"
	LOG_XLSX_GENERATED         = "xlsx_generated"
)

// Редактируемые поля отчета (закрытый набор, см. flows/edit.go)
const (
	FIELD_LASTNAME        = "lastname"
	FIELD_FIRSTNAME       = "firstname"
	FIELD_QR_NUMBER       = "qr_number"
	FIELD_QR_AMOUNT       = "qr_amount"
	FIELD_CASH_AMOUNT     = "cash_amount"
	FIELD_TERMINAL_AMOUNT = "terminal_amount"
	FIELD_COMMENT         = "comment"
)

// Финансовые константы. Все суммы в системе — целые рубли.
const (
	// Доля зарплаты от выручки (20%).
	SALARY_PERCENT = 0.20
	// Бонус за каждую пройденную бонусную планку, ₽.
	TIER_BONUS_AMOUNT = 500
	// Бонус за лучшую выручку дня на площадке, ₽.
	BEST_REVENUE_BONUS_AMOUNT = 500
)

// Ограничения Telegram и отображения
const (
	// Максимальная длина одного сообщения; длинные тексты режутся по блокам.
	MAX_MESSAGE_LENGTH = 4000
	// Максимальная длина значения поля на кнопке меню редактирования.
	MAX_BUTTON_VALUE_LENGTH = 30
)

// Общие текстовые сообщения
const (
	AccessDeniedMessage  = "❌ У вас нет прав доступа для этого действия."
	GenericErrorMessage  = "Произошла ошибка. Попробуйте еще раз или обратитесь к администратору."
	NoActiveFlowMessage  = "Нет активного процесса заполнения"
	InvalidAmountMessage = "❌ Пожалуйста, введите корректное число (например: 1000 или 1000.50)"
)
