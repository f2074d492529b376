package domain

import "fmt"

// MutationKind - вид изменения каталога.
type MutationKind string

const (
	MutationAdd             MutationKind = "add"
	MutationEdit            MutationKind = "edit"
	MutationDelete          MutationKind = "delete"
	MutationSetAvailability MutationKind = "set_availability"
)

// MutationIntent описывает одну операцию записи. Используйте конструкторы ниже.
type MutationIntent struct {
	Kind         MutationKind
	PropertyID   int64
	Draft        *PropertyDraft
	Availability Availability
}

func AddIntent(draft PropertyDraft) MutationIntent {
	return MutationIntent{Kind: MutationAdd, Draft: &draft}
}

func EditIntent(id int64, draft PropertyDraft) MutationIntent {
	return MutationIntent{Kind: MutationEdit, PropertyID: id, Draft: &draft}
}

func DeleteIntent(id int64) MutationIntent {
	return MutationIntent{Kind: MutationDelete, PropertyID: id}
}

// SetAvailabilityIntent несет ТЕКУЩЕЕ значение доступности, которое видит клиент.
// Переключение выполняет сервер.
func SetAvailabilityIntent(id int64, current Availability) MutationIntent {
	return MutationIntent{Kind: MutationSetAvailability, PropertyID: id, Availability: current}
}

func (m MutationIntent) String() string {
	switch m.Kind {
	case MutationAdd:
		return "add"
	case MutationEdit:
		return fmt.Sprintf("edit(%d)", m.PropertyID)
	case MutationDelete:
		return fmt.Sprintf("delete(%d)", m.PropertyID)
	case MutationSetAvailability:
		return fmt.Sprintf("set_availability(%d, %d)", m.PropertyID, m.Availability)
	default:
		return string(m.Kind)
	}
}

// MutationEvent - событие об успешно выполненной записи.
// SessionID - сессия, из которой пришла запись; она обновляется сама.
type MutationEvent struct {
	Kind         MutationKind `json:"kind"`
	PropertyID   int64        `json:"property_id"`
	LandlordID   int64        `json:"landlord_id,omitempty"`
	Availability *int         `json:"availability,omitempty"`
	SessionID    string       `json:"session_id,omitempty"`
}

// Affects сообщает, может ли запись изменить список в области scope.
// Общий каталог затрагивает любая запись, область арендодателя - только его объекты.
func (e MutationEvent) Affects(scope ListingScope) bool {
	if !scope.IsLandlord() || e.LandlordID == 0 {
		return true
	}
	return scope.LandlordID == e.LandlordID
}

// FormMode - режим формы, которую показывает слой представления.
type FormMode string

const (
	FormAdd             FormMode = "add"
	FormEdit            FormMode = "edit"
	FormDelete          FormMode = "delete"
	FormMakeAvailable   FormMode = "makeAvailable"
	FormMakeUnavailable FormMode = "makeUnavailable"
)

// ParseFormMode разбирает режим формы из строки.
func ParseFormMode(s string) (FormMode, error) {
	switch FormMode(s) {
	case FormAdd, FormEdit, FormDelete, FormMakeAvailable, FormMakeUnavailable:
		return FormMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown form mode %q", ErrValidation, s)
}

// FormState - то, что нужно отрисовать в модальном окне.
type FormState struct {
	Mode       FormMode
	PropertyID int64
	Draft      *PropertyDraft
}
