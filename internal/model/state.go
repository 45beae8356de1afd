package model

// StateKind определяет шаг диалога, на котором находится пользователь.
type StateKind int

const (
	StateIdle StateKind = iota
	StateChoosingTimezone
	StateChoosingCategory
	StateAddingCategory
	StateWaitingAmount
	StateWaitingDescription
	StateChoosingStatsMode
	StateChoosingCategoryForStats
	StateEditing
	StateEditingField
)

// ExpenseField — редактируемое поле записи о расходе.
type ExpenseField string

const (
	FieldAmount      ExpenseField = "amount"
	FieldCategory    ExpenseField = "category"
	FieldDescription ExpenseField = "description"
)

// State представляет текущее состояние пользователя. Поля заполняются
// в зависимости от Kind: Category для шага ввода суммы, Category и Amount
// для шага ввода описания, ExpenseID и Field при редактировании записи.
type State struct {
	Kind      StateKind
	Category  string
	Amount    float64
	ExpenseID int64
	Field     ExpenseField
}
