package i18n

// Key identifies a user-facing message.
type Key string

const (
	AuthBadCredentials Key = "auth.bad_credentials"
	AuthRegisterFailed Key = "auth.register_failed"
	AuthUnauthorized   Key = "auth.unauthorized"
	NetworkFailure     Key = "net.failure"
	UnknownFailure     Key = "unknown"

	ProfileShape       Key = "profile.shape"
	ProfileError       Key = "profile.error"
	ProfileUpdateShape Key = "profile.update_shape"
	ProfileUpdateError Key = "profile.update_error"

	GroupShape       Key = "group.shape"
	GroupError       Key = "group.error"
	GroupAddStudents Key = "group.add_students_error"

	EventsShape      Key = "events.shape"
	EventsError      Key = "events.error"
	EventSaveError   Key = "events.save_error"
	EventDeleteError Key = "events.delete_error"
	EventInvalidDate Key = "events.invalid_date"

	Forbidden Key = "forbidden"
	NotFound  Key = "not_found"

	ConfirmDelete Key = "confirm.delete"
	Yes           Key = "yes"
	No            Key = "no"

	MenuTitle      Key = "menu.title"
	MenuProfile    Key = "menu.profile"
	MenuLogout     Key = "menu.logout"
	LoginTitle     Key = "login.title"
	LoginDone      Key = "login.done"
	RegisterTitle  Key = "register.title"
	RegisterDone   Key = "register.done"
	LabelRole      Key = "label.role"
	LabelFullName  Key = "label.full_name"
	LabelGroup     Key = "label.group"
	LabelLeader    Key = "label.leader"
	LabelMembers   Key = "label.members"
	LabelSchedule  Key = "label.schedule"
	LabelNone      Key = "label.none"
	LabelInactive  Key = "label.inactive"
	LabelWeekly    Key = "label.weekly"
	NoEvents       Key = "events.none"
	NoStudents     Key = "group.no_students"
	NextDates      Key = "events.next_dates"
	ProfileSaved   Key = "profile.saved"
	StudentsAdded  Key = "group.students_added"
	EventSaved     Key = "events.saved"
	EventDeleted   Key = "events.deleted"
	DeleteCanceled Key = "events.delete_canceled"

	fieldPrefix = "field."
)

var messages = map[Locale]map[Key]string{
	Ukrainian: {
		AuthBadCredentials: "Невірна пошта або пароль.",
		AuthRegisterFailed: "Помилка реєстрації.",
		AuthUnauthorized:   "Сесія недійсна. Увійдіть знову.",
		NetworkFailure:     "Помилка мережі або серверу. Спробуйте пізніше.",
		UnknownFailure:     "Сталася невідома помилка. Спробуйте ще раз.",

		ProfileShape:       "Не вдалось завантажити профіль.",
		ProfileError:       "Сталася помилка при завантаженні профілю.",
		ProfileUpdateShape: "Не вдалося оновити профіль.",
		ProfileUpdateError: "Сталася помилка при оновленні профілю.",

		GroupShape:       "Не вдалося завантажити дані групи.",
		GroupError:       "Сталася помилка при завантаженні даних групи.",
		GroupAddStudents: "Не вдалося додати студентів до групи.",

		EventsShape:      "Не вдалося завантажити розклад.",
		EventsError:      "Сталася помилка при завантаженні розкладу.",
		EventSaveError:   "Сталася помилка при збереженні події.",
		EventDeleteError: "Помилка видалення події.",
		EventInvalidDate: "Невірна дата: {0}",

		Forbidden: "Недостатньо прав для цієї дії.",
		NotFound:  "Сторінку не знайдено.",

		ConfirmDelete: "Видалити подію «{0}»?",
		Yes:           "Так",
		No:            "Ні",

		MenuTitle:      "Меню",
		MenuProfile:    "Профіль",
		MenuLogout:     "Вихід",
		LoginTitle:     "Вхід",
		LoginDone:      "Вхід виконано.",
		RegisterTitle:  "Реєстрація",
		RegisterDone:   "Реєстрація успішна. Тепер увійдіть.",
		LabelRole:      "Роль",
		LabelFullName:  "Повне ім'я",
		LabelGroup:     "Група",
		LabelLeader:    "Староста",
		LabelMembers:   "Студенти",
		LabelSchedule:  "Розклад",
		LabelNone:      "немає",
		LabelInactive:  "неактивна",
		LabelWeekly:    "щотижня до {0}",
		NoEvents:       "Подій не знайдено.",
		NoStudents:     "Немає доступних студентів.",
		NextDates:      "Найближчі дати:",
		ProfileSaved:   "Профіль оновлено.",
		StudentsAdded:  "Студентів додано до групи.",
		EventSaved:     "Подію збережено.",
		EventDeleted:   "Подію видалено.",
		DeleteCanceled: "Видалення скасовано.",

		fieldPrefix + "email":      "Пошта",
		fieldPrefix + "password":   "Пароль",
		fieldPrefix + "first_name": "Ім'я",
		fieldPrefix + "last_name":  "Прізвище",
		fieldPrefix + "username":   "Username",
		fieldPrefix + "name":       "Назва",
		fieldPrefix + "date":       "Дата",
		fieldPrefix + "time":       "Час",
	},
	English: {
		AuthBadCredentials: "Wrong email or password.",
		AuthRegisterFailed: "Registration failed.",
		AuthUnauthorized:   "Your session is not valid. Please sign in again.",
		NetworkFailure:     "Network or server error. Try again later.",
		UnknownFailure:     "An unknown error occurred. Please try again.",

		ProfileShape:       "Could not load the profile.",
		ProfileError:       "An error occurred while loading the profile.",
		ProfileUpdateShape: "Could not update the profile.",
		ProfileUpdateError: "An error occurred while updating the profile.",

		GroupShape:       "Could not load the group.",
		GroupError:       "An error occurred while loading the group.",
		GroupAddStudents: "Could not add students to the group.",

		EventsShape:      "Could not load the schedule.",
		EventsError:      "An error occurred while loading the schedule.",
		EventSaveError:   "An error occurred while saving the event.",
		EventDeleteError: "Could not delete the event.",
		EventInvalidDate: "Invalid date: {0}",

		Forbidden: "You are not allowed to do this.",
		NotFound:  "Page not found.",

		ConfirmDelete: "Delete event \"{0}\"?",
		Yes:           "Yes",
		No:            "No",

		MenuTitle:      "Menu",
		MenuProfile:    "Profile",
		MenuLogout:     "Log out",
		LoginTitle:     "Sign in",
		LoginDone:      "Signed in.",
		RegisterTitle:  "Registration",
		RegisterDone:   "Registered. Please sign in.",
		LabelRole:      "Role",
		LabelFullName:  "Full name",
		LabelGroup:     "Group",
		LabelLeader:    "Group leader",
		LabelMembers:   "Students",
		LabelSchedule:  "Schedule",
		LabelNone:      "none",
		LabelInactive:  "inactive",
		LabelWeekly:    "weekly until {0}",
		NoEvents:       "No events found.",
		NoStudents:     "No students available.",
		NextDates:      "Next dates:",
		ProfileSaved:   "Profile updated.",
		StudentsAdded:  "Students added to the group.",
		EventSaved:     "Event saved.",
		EventDeleted:   "Event deleted.",
		DeleteCanceled: "Delete canceled.",

		fieldPrefix + "email":      "Email",
		fieldPrefix + "password":   "Password",
		fieldPrefix + "first_name": "First name",
		fieldPrefix + "last_name":  "Last name",
		fieldPrefix + "username":   "Username",
		fieldPrefix + "name":       "Name",
		fieldPrefix + "date":       "Date",
		fieldPrefix + "time":       "Time",
	},
}
